// Package memdoc is an in-memory reference implementation of the host
// document command surface. It backs the engine's tests and the CLI demo;
// real deployments bind the engine to an external editor instead.
package memdoc

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fluxnote/scribe/internal/document"
)

var (
	// ErrNotInList is returned by SplitListItem outside a list.
	ErrNotInList = errors.New("memdoc: split outside a list item")
	// ErrForeignSnapshot is returned by Replace for snapshots this
	// document did not produce.
	ErrForeignSnapshot = errors.New("memdoc: snapshot from a different host")
)

// node is one block-level node. The zero value is an empty paragraph.
type node struct {
	id    document.NodeID
	kind  document.BlockKind
	level int
	list  document.ListKind
	text  string
	raw   bool // text is verbatim markup, not inline content
	tag   string
	fresh bool
}

func (n *node) view() document.Node {
	return document.Node{
		ID:    n.id,
		Kind:  n.kind,
		Level: n.level,
		List:  n.list,
		Text:  n.text,
		Tag:   n.tag,
		Fresh: n.fresh,
	}
}

// Doc is a flat sequence of block nodes plus one open block the cursor sits
// in. Consecutive list items of the same kind form a list when exported.
type Doc struct {
	mu       sync.Mutex
	nodes    []*node
	cur      *node // open block; nil means an implicit empty paragraph
	nextID   document.NodeID
	writeTag string
	focus    string

	onChange  func()
	freshFor  time.Duration
	freshWipe *time.Timer
}

// Option configures a Doc.
type Option func(*Doc)

// WithOnChange registers a callback fired after every non-silent write.
// The callback runs with the document lock held and must not call back in.
func WithOnChange(f func()) Option {
	return func(d *Doc) { d.onChange = f }
}

// WithFreshMarker keeps a "freshly generated" marker on detagged nodes for
// the given duration before clearing it.
func WithFreshMarker(d time.Duration) Option {
	return func(doc *Doc) { doc.freshFor = d }
}

// New creates an empty document.
func New(opts ...Option) *Doc {
	d := &Doc{nextID: 1}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Doc) newNode(kind document.BlockKind) *node {
	n := &node{id: d.nextID, kind: kind, tag: d.writeTag}
	d.nextID++
	return n
}

// ensure returns the open block, creating an empty paragraph if none is open.
func (d *Doc) ensure() *node {
	if d.cur == nil {
		d.cur = d.newNode(document.BlockParagraph)
	}
	return d.cur
}

// commit moves the open block into the node list. Empty paragraphs are
// dropped rather than committed so blank lines never produce stray nodes.
func (d *Doc) commit() {
	if d.cur == nil {
		return
	}
	if d.cur.text == "" && d.cur.kind == document.BlockParagraph {
		d.cur = nil
		return
	}
	d.nodes = append(d.nodes, d.cur)
	d.cur = nil
}

func (d *Doc) changed() {
	if d.onChange != nil {
		d.onChange()
	}
}

// SetBlockType converts the open block to the given kind. A non-empty open
// block is committed first so converting never destroys typed content.
func (d *Doc) SetBlockType(kind document.BlockKind, level int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch kind {
	case document.BlockParagraph, document.BlockHeading, document.BlockQuote, document.BlockCode:
	default:
		return fmt.Errorf("memdoc: unsupported block type %q", kind)
	}
	if kind == document.BlockHeading && (level < 1 || level > 6) {
		return fmt.Errorf("memdoc: heading level %d out of range", level)
	}

	if d.cur != nil && d.cur.text != "" {
		d.commit()
	}
	n := d.ensure()
	n.kind = kind
	n.level = level
	n.list = ""
	n.tag = d.writeTag
	d.changed()
	return nil
}

// ToggleList opens a list of the given kind, or closes the current one when
// the open block is already an item of that kind.
func (d *Doc) ToggleList(kind document.ListKind) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if kind != document.ListBullet && kind != document.ListOrdered {
		return fmt.Errorf("memdoc: unsupported list kind %q", kind)
	}

	if d.cur != nil && d.cur.kind == document.BlockListItem && d.cur.list == kind {
		// Closing toggle: commit whatever the item holds and drop back
		// to an implicit paragraph.
		if d.cur.text != "" {
			d.nodes = append(d.nodes, d.cur)
		}
		d.cur = nil
		d.changed()
		return nil
	}

	if d.cur != nil && d.cur.text != "" {
		d.commit()
	}
	n := d.ensure()
	n.kind = document.BlockListItem
	n.list = kind
	n.level = 0
	n.tag = d.writeTag
	d.changed()
	return nil
}

// SplitListItem finishes the open list item and starts the next one.
func (d *Doc) SplitListItem() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cur == nil || d.cur.kind != document.BlockListItem {
		return ErrNotInList
	}
	kind := d.cur.list
	d.nodes = append(d.nodes, d.cur)
	d.cur = d.newNode(document.BlockListItem)
	d.cur.list = kind
	d.changed()
	return nil
}

// InsertInline appends resolved inline markup to the open block.
func (d *Doc) InsertInline(markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.ensure()
	n.text += markup
	if d.writeTag != "" {
		n.tag = d.writeTag
	}
	d.changed()
	return nil
}

// InsertParagraphBreak commits the open block. A break on an implicit empty
// paragraph is a no-op, so consecutive blank lines collapse.
func (d *Doc) InsertParagraphBreak() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cur != nil && (d.cur.text != "" || d.cur.kind != document.BlockParagraph) {
		d.nodes = append(d.nodes, d.cur)
		d.cur = nil
		d.changed()
		return nil
	}
	d.cur = nil
	return nil
}

// InsertRaw inserts a pre-built markup fragment as its own block.
func (d *Doc) InsertRaw(markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if strings.TrimSpace(markup) == "" {
		return errors.New("memdoc: empty raw fragment")
	}
	if d.cur != nil && d.cur.text != "" {
		d.commit()
	} else {
		d.cur = nil
	}
	n := d.newNode(rawKind(markup))
	n.raw = true
	n.text = markup
	d.nodes = append(d.nodes, n)
	d.changed()
	return nil
}

// rawKind sniffs the block kind of a raw markup fragment for reporting.
func rawKind(markup string) document.BlockKind {
	t := strings.ToLower(strings.TrimSpace(markup))
	switch {
	case strings.HasPrefix(t, "<hr"):
		return document.BlockRule
	case strings.HasPrefix(t, "<pre"):
		return document.BlockCode
	default:
		return document.BlockParagraph
	}
}

// InsertDiagram stores a diagram definition as its own block. Implements
// document.DiagramInserter.
func (d *Doc) InsertDiagram(kind, definition string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if strings.TrimSpace(definition) == "" {
		return errors.New("memdoc: empty diagram definition")
	}
	if d.cur != nil && d.cur.text != "" {
		d.commit()
	} else {
		d.cur = nil
	}
	n := d.newNode(document.BlockDiagram)
	n.list = ""
	n.level = 0
	n.text = definition
	n.raw = true
	d.nodes = append(d.nodes, n)
	d.changed()
	return nil
}

// TagWrites sets the write tag. While non-empty, every node created or
// modified is stamped with it.
func (d *Doc) TagWrites(tag string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeTag = tag
}

// NodesByTag returns the ids of all nodes carrying the tag.
func (d *Doc) NodesByTag(tag string) []document.NodeID {
	d.mu.Lock()
	defer d.mu.Unlock()

	if tag == "" {
		return nil
	}
	var ids []document.NodeID
	for _, n := range d.nodes {
		if n.tag == tag {
			ids = append(ids, n.id)
		}
	}
	if d.cur != nil && d.cur.tag == tag {
		ids = append(ids, d.cur.id)
	}
	return ids
}

// StripTag clears a node's tag. When a fresh-marker duration is configured
// the node keeps a transient Fresh flag that self-clears afterwards.
func (d *Doc) StripTag(id document.NodeID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.find(id)
	if n == nil {
		return fmt.Errorf("memdoc: no node %d", id)
	}
	n.tag = ""
	if d.freshFor > 0 {
		n.fresh = true
		d.scheduleFreshWipe()
	}
	return nil
}

// scheduleFreshWipe arms (or re-arms) the timer that clears fresh markers.
// Caller holds the lock.
func (d *Doc) scheduleFreshWipe() {
	if d.freshWipe != nil {
		d.freshWipe.Stop()
	}
	d.freshWipe = time.AfterFunc(d.freshFor, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for _, n := range d.nodes {
			n.fresh = false
		}
		if d.cur != nil {
			d.cur.fresh = false
		}
	})
}

// RemoveNode deletes a node from the document.
func (d *Doc) RemoveNode(id document.NodeID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cur != nil && d.cur.id == id {
		d.cur = nil
		d.changed()
		return nil
	}
	for i, n := range d.nodes {
		if n.id == id {
			d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
			d.changed()
			return nil
		}
	}
	return fmt.Errorf("memdoc: no node %d", id)
}

// Focus records the host cursor position. memdoc has no real cursor; the
// position is kept for inspection only.
func (d *Doc) Focus(position string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.focus = position
}

// snapshot is memdoc's Snapshot implementation: value copies of every node
// plus the open block, with the markdown rendering captured up front.
type snapshot struct {
	owner  *Doc
	nodes  []node
	cur    *node
	nextID document.NodeID
	md     string
}

func (s *snapshot) Markdown() string { return s.md }

// Serialize captures the full document state.
func (d *Doc) Serialize() document.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := &snapshot{owner: d, nextID: d.nextID, md: d.exportMarkdownLocked()}
	s.nodes = make([]node, len(d.nodes))
	for i, n := range d.nodes {
		s.nodes[i] = *n
	}
	if d.cur != nil {
		cp := *d.cur
		s.cur = &cp
	}
	return s
}

// Replace swaps the whole document for a previously captured snapshot.
func (d *Doc) Replace(snap document.Snapshot, silent bool) error {
	s, ok := snap.(*snapshot)
	if !ok || s.owner != d {
		return ErrForeignSnapshot
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nodes = make([]*node, len(s.nodes))
	for i := range s.nodes {
		cp := s.nodes[i]
		d.nodes[i] = &cp
	}
	d.cur = nil
	if s.cur != nil {
		cp := *s.cur
		d.cur = &cp
	}
	d.nextID = s.nextID
	if !silent {
		d.changed()
	}
	return nil
}

// Nodes returns a read-only view of every block, open block included.
func (d *Doc) Nodes() []document.Node {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]document.Node, 0, len(d.nodes)+1)
	for _, n := range d.nodes {
		out = append(out, n.view())
	}
	if d.cur != nil && (d.cur.text != "" || d.cur.kind != document.BlockParagraph) {
		out = append(out, d.cur.view())
	}
	return out
}

// Len returns the number of visible blocks.
func (d *Doc) Len() int {
	return len(d.Nodes())
}

func (d *Doc) find(id document.NodeID) *node {
	for _, n := range d.nodes {
		if n.id == id {
			return n
		}
	}
	if d.cur != nil && d.cur.id == id {
		return d.cur
	}
	return nil
}
