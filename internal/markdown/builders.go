package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fluxnote/scribe/internal/document"
)

// StructuredKind names the structured content shapes the engine can build
// markup for.
type StructuredKind int

const (
	StructHeading StructuredKind = iota
	StructList
	StructTable
	StructQuote
	StructMermaid
)

func (k StructuredKind) String() string {
	switch k {
	case StructHeading:
		return "heading"
	case StructList:
		return "list"
	case StructTable:
		return "table"
	case StructQuote:
		return "quote"
	case StructMermaid:
		return "mermaid"
	default:
		return "unknown"
	}
}

// Structured carries the data for one structured insertion. Only the fields
// for the chosen Kind are read.
type Structured struct {
	Kind StructuredKind

	Level int    // heading
	Text  string // heading, quote

	List  document.ListKind // list
	Items []string          // list

	Headers []string   // table
	Rows    [][]string // table

	Definition string // mermaid
}

// Markdown builds the markdown text for the structured content. Mermaid has
// no markdown form; callers route it to the host's diagram command instead.
func (s Structured) Markdown() (string, error) {
	switch s.Kind {
	case StructHeading:
		level := s.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		if strings.TrimSpace(s.Text) == "" {
			return "", errors.New("markdown: heading needs text")
		}
		return strings.Repeat("#", level) + " " + s.Text + "\n", nil

	case StructList:
		if len(s.Items) == 0 {
			return "", errors.New("markdown: list needs items")
		}
		var b strings.Builder
		for i, item := range s.Items {
			if s.List == document.ListOrdered {
				fmt.Fprintf(&b, "%d. %s\n", i+1, item)
			} else {
				fmt.Fprintf(&b, "- %s\n", item)
			}
		}
		return b.String(), nil

	case StructTable:
		if len(s.Headers) == 0 {
			return "", errors.New("markdown: table needs headers")
		}
		var b strings.Builder
		writeRow(&b, s.Headers)
		sep := make([]string, len(s.Headers))
		for i := range sep {
			sep[i] = "---"
		}
		writeRow(&b, sep)
		for _, row := range s.Rows {
			cells := make([]string, len(s.Headers))
			for i := range cells {
				if i < len(row) {
					cells[i] = row[i]
				}
			}
			writeRow(&b, cells)
		}
		return b.String(), nil

	case StructQuote:
		if strings.TrimSpace(s.Text) == "" {
			return "", errors.New("markdown: quote needs text")
		}
		var b strings.Builder
		for _, line := range strings.Split(strings.TrimRight(s.Text, "\n"), "\n") {
			b.WriteString("> " + line + "\n")
		}
		return b.String(), nil

	case StructMermaid:
		return "", errors.New("markdown: mermaid has no markup form")

	default:
		return "", fmt.Errorf("markdown: unknown structured kind %d", s.Kind)
	}
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" " + strings.ReplaceAll(c, "|", `\|`) + " |")
	}
	b.WriteString("\n")
}
