// Package document defines the edit instructions the insertion engine
// produces and the command surface of the host document it drives. The host
// itself (a rich-text editor, a headless document store) lives outside this
// module; memdoc provides a reference implementation for tests and the CLI.
package document

import "fmt"

// Op identifies one kind of atomic, host-applicable edit instruction.
type Op int

const (
	OpSetBlock     Op = iota // change the current block's type (heading, blockquote, ...)
	OpToggleList             // open or close a list of the given kind
	OpSplitItem              // finish the current list item and start the next one
	OpInsertInline           // append resolved inline markup to the current block
	OpEnter                  // paragraph break: commit the current block
	OpInsertRaw              // insert a pre-built markup fragment as its own block
)

func (o Op) String() string {
	switch o {
	case OpSetBlock:
		return "set-block"
	case OpToggleList:
		return "toggle-list"
	case OpSplitItem:
		return "split-item"
	case OpInsertInline:
		return "insert-inline"
	case OpEnter:
		return "enter"
	case OpInsertRaw:
		return "insert-raw"
	default:
		return "unknown"
	}
}

// BlockKind names a block type understood by the host surface.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockHeading   BlockKind = "heading"
	BlockQuote     BlockKind = "blockquote"
	BlockListItem  BlockKind = "list_item"
	BlockCode      BlockKind = "code_block"
	BlockRule      BlockKind = "horizontal_rule"
	BlockDiagram   BlockKind = "diagram"
)

// ListKind names a list flavor.
type ListKind string

const (
	ListBullet  ListKind = "bullet"
	ListOrdered ListKind = "ordered"
)

// Mutation is one self-contained edit instruction derived from the input
// stream. Mutations are produced in document order; none depends on the side
// effects of a later one.
type Mutation struct {
	Op     Op
	Kind   BlockKind // OpSetBlock
	Level  int       // OpSetBlock with BlockHeading: 1..6
	List   ListKind  // OpToggleList
	Markup string    // OpInsertInline, OpInsertRaw
}

func (m Mutation) String() string {
	switch m.Op {
	case OpSetBlock:
		if m.Kind == BlockHeading {
			return fmt.Sprintf("set-block(heading,%d)", m.Level)
		}
		return fmt.Sprintf("set-block(%s)", m.Kind)
	case OpToggleList:
		return fmt.Sprintf("toggle-list(%s)", m.List)
	case OpInsertInline:
		return fmt.Sprintf("insert-inline(%q)", m.Markup)
	case OpInsertRaw:
		return fmt.Sprintf("insert-raw(%q)", m.Markup)
	default:
		return m.Op.String()
	}
}

// SetBlock builds an OpSetBlock mutation.
func SetBlock(kind BlockKind, level int) Mutation {
	return Mutation{Op: OpSetBlock, Kind: kind, Level: level}
}

// ToggleList builds an OpToggleList mutation.
func ToggleList(kind ListKind) Mutation {
	return Mutation{Op: OpToggleList, List: kind}
}

// SplitItem builds an OpSplitItem mutation.
func SplitItem() Mutation {
	return Mutation{Op: OpSplitItem}
}

// InsertInline builds an OpInsertInline mutation carrying resolved markup.
func InsertInline(markup string) Mutation {
	return Mutation{Op: OpInsertInline, Markup: markup}
}

// Enter builds an OpEnter mutation.
func Enter() Mutation {
	return Mutation{Op: OpEnter}
}

// InsertRaw builds an OpInsertRaw mutation.
func InsertRaw(markup string) Mutation {
	return Mutation{Op: OpInsertRaw, Markup: markup}
}
