package markdown

import (
	"testing"

	"github.com/fluxnote/scribe/internal/document"
)

func TestStructuredMarkdown(t *testing.T) {
	cases := []struct {
		name string
		in   Structured
		want string
	}{
		{
			name: "heading",
			in:   Structured{Kind: StructHeading, Level: 2, Text: "Results"},
			want: "## Results\n",
		},
		{
			name: "heading level clamped low",
			in:   Structured{Kind: StructHeading, Level: 0, Text: "T"},
			want: "# T\n",
		},
		{
			name: "heading level clamped high",
			in:   Structured{Kind: StructHeading, Level: 9, Text: "T"},
			want: "###### T\n",
		},
		{
			name: "bullet list",
			in:   Structured{Kind: StructList, List: document.ListBullet, Items: []string{"a", "b"}},
			want: "- a\n- b\n",
		},
		{
			name: "ordered list",
			in:   Structured{Kind: StructList, List: document.ListOrdered, Items: []string{"a", "b", "c"}},
			want: "1. a\n2. b\n3. c\n",
		},
		{
			name: "table",
			in: Structured{
				Kind:    StructTable,
				Headers: []string{"Name", "Role"},
				Rows:    [][]string{{"ada", "eng"}, {"li", "ops"}},
			},
			want: "| Name | Role |\n| --- | --- |\n| ada | eng |\n| li | ops |\n",
		},
		{
			name: "table pads short rows and escapes pipes",
			in: Structured{
				Kind:    StructTable,
				Headers: []string{"A", "B"},
				Rows:    [][]string{{"x|y"}},
			},
			want: "| A | B |\n| --- | --- |\n| x\\|y |  |\n",
		},
		{
			name: "quote",
			in:   Structured{Kind: StructQuote, Text: "one\ntwo\n"},
			want: "> one\n> two\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.in.Markdown()
			if err != nil {
				t.Fatalf("Markdown() error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Markdown() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStructuredMarkdownErrors(t *testing.T) {
	cases := []struct {
		name string
		in   Structured
	}{
		{"empty heading", Structured{Kind: StructHeading, Level: 1, Text: "  "}},
		{"empty list", Structured{Kind: StructList}},
		{"empty table", Structured{Kind: StructTable}},
		{"empty quote", Structured{Kind: StructQuote}},
		{"mermaid", Structured{Kind: StructMermaid, Definition: "graph TD; a-->b"}},
		{"unknown kind", Structured{Kind: StructuredKind(99)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.in.Markdown(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
