package preview

import (
	"errors"
	"testing"

	"github.com/fluxnote/scribe/internal/document"
	"github.com/fluxnote/scribe/internal/document/memdoc"
)

func seed(t *testing.T, doc *memdoc.Doc, text string) {
	t.Helper()
	if err := doc.InsertInline(text); err != nil {
		t.Fatal(err)
	}
	if err := doc.InsertParagraphBreak(); err != nil {
		t.Fatal(err)
	}
}

func TestBeginConflict(t *testing.T) {
	m := NewManager(memdoc.New())

	s, err := m.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if s.ID() == "" {
		t.Error("empty session id")
	}
	if _, err := m.Begin(); !errors.Is(err, ErrConflict) {
		t.Errorf("second Begin err = %v, want ErrConflict", err)
	}
	if err := m.Reject(); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, err := m.Begin(); err != nil {
		t.Errorf("Begin after resolve: %v", err)
	}
}

func TestIdleStateErrors(t *testing.T) {
	m := NewManager(memdoc.New())
	if err := m.Accept(); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Accept err = %v, want ErrNoActiveSession", err)
	}
	if err := m.Reject(); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Reject err = %v, want ErrNoActiveSession", err)
	}
	// A force-cancel from idle is not an error.
	if err := m.Cancel(); err != nil {
		t.Errorf("Cancel err = %v, want nil", err)
	}
	if m.Active() != nil {
		t.Error("idle manager reports an active session")
	}
}

func TestAcceptDetagsAndKeeps(t *testing.T) {
	doc := memdoc.New()
	seed(t, doc, "existing")
	m := NewManager(doc, WithLogf(t.Logf))

	s, err := m.Begin()
	if err != nil {
		t.Fatal(err)
	}
	seed(t, doc, "generated one")
	seed(t, doc, "generated two")

	if ids := doc.NodesByTag(s.ID()); len(ids) != 2 {
		t.Fatalf("got %d tagged nodes, want 2", len(ids))
	}
	if err := m.Accept(); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if m.Active() != nil {
		t.Error("session still active after accept")
	}
	if ids := doc.NodesByTag(s.ID()); ids != nil {
		t.Errorf("tags survive accept: %v", ids)
	}
	if doc.Len() != 3 {
		t.Errorf("got %d nodes, want 3", doc.Len())
	}
}

func TestRejectRestoresSnapshot(t *testing.T) {
	doc := memdoc.New()
	seed(t, doc, "existing")
	before := doc.ExportMarkdown()
	m := NewManager(doc, WithLogf(t.Logf))

	s, err := m.Begin()
	if err != nil {
		t.Fatal(err)
	}
	seed(t, doc, "generated")
	if s.Snapshot().Markdown() != before {
		t.Errorf("snapshot = %q, want %q", s.Snapshot().Markdown(), before)
	}

	if err := m.Reject(); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if got := doc.ExportMarkdown(); got != before {
		t.Errorf("after reject = %q, want %q", got, before)
	}
	if doc.NodesByTag(s.ID()) != nil {
		t.Error("tagged nodes survived reject")
	}
}

func TestRejectSilent(t *testing.T) {
	changes := 0
	doc := memdoc.New(memdoc.WithOnChange(func() { changes++ }))
	m := NewManager(doc)

	if _, err := m.Begin(); err != nil {
		t.Fatal(err)
	}
	seed(t, doc, "generated")

	// The restore itself must not fire change notifications; removals of
	// the session's own nodes may.
	n := changes
	if err := m.Reject(); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	// One change per removed node, none for the silent replace.
	if changes != n+1 {
		t.Errorf("changes during reject = %d, want 1", changes-n)
	}
}

func TestCancelActsLikeReject(t *testing.T) {
	doc := memdoc.New()
	before := doc.ExportMarkdown()
	m := NewManager(doc)

	if _, err := m.Begin(); err != nil {
		t.Fatal(err)
	}
	seed(t, doc, "partial output")

	if err := m.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if m.Active() != nil {
		t.Error("session still active after cancel")
	}
	if got := doc.ExportMarkdown(); got != before {
		t.Errorf("after cancel = %q, want %q", got, before)
	}
}

func TestTaggingStopsAtResolve(t *testing.T) {
	doc := memdoc.New()
	m := NewManager(doc)

	s, err := m.Begin()
	if err != nil {
		t.Fatal(err)
	}
	seed(t, doc, "in session")
	if err := m.Accept(); err != nil {
		t.Fatal(err)
	}

	seed(t, doc, "after session")
	var tagged []document.NodeID
	for _, n := range doc.Nodes() {
		if n.Tag != "" {
			tagged = append(tagged, n.ID)
		}
	}
	if tagged != nil {
		t.Errorf("writes after resolve carry tags: %v (session %s)", tagged, s.ID())
	}
}
