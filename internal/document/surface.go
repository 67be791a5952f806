package document

// NodeID identifies one block-level node inside a host document. IDs are
// stable for the lifetime of the node but carry no meaning across a Replace.
type NodeID int64

// Node is a read-only view of one block-level node, as reported by the host.
type Node struct {
	ID    NodeID
	Kind  BlockKind
	Level int      // headings
	List  ListKind // list items
	Text  string   // inline markup content
	Tag   string   // session tag, empty when untagged
	Fresh bool     // transient freshly-generated marker
}

// Snapshot is an opaque full serialization of a host document. The engine
// never looks inside it; it only hands it back to Replace.
type Snapshot interface {
	// Markdown renders the captured state as markdown text. Used for the
	// preview diff view; hosts that cannot render markdown may return "".
	Markdown() string
}

// Surface is the command surface of the host editing surface. Every write
// the engine performs goes through this interface; each command reports
// failure through its error return and must leave the document consistent
// when it fails (the applier may continue with the next mutation).
//
// Implementations are not required to be safe for concurrent use. The engine
// serializes all writes on its own (one tick at a time).
type Surface interface {
	// Block commands.
	SetBlockType(kind BlockKind, level int) error
	ToggleList(kind ListKind) error
	SplitListItem() error
	InsertInline(markup string) error
	InsertParagraphBreak() error
	InsertRaw(markup string) error

	// Whole-document operations.
	Serialize() Snapshot
	// Replace swaps the entire document for the snapshot. When silent is
	// true the host must not emit change notifications; a preview rollback
	// is not itself an undoable user edit.
	Replace(snap Snapshot, silent bool) error

	// Tag plumbing for preview sessions. While the write tag is non-empty
	// every node the surface creates or modifies is stamped with it.
	TagWrites(tag string)
	NodesByTag(tag string) []NodeID
	StripTag(id NodeID) error
	RemoveNode(id NodeID) error

	// Focus moves the host cursor. Position is host-defined ("start",
	// "end"); hosts may ignore it.
	Focus(position string)
}

// DiagramInserter is an optional Surface capability. Hosts that can render
// diagrams natively implement it; InsertStructured delegates mermaid input
// here instead of building markup.
type DiagramInserter interface {
	InsertDiagram(kind, definition string) error
}
