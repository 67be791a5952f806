package memdoc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"

	"github.com/fluxnote/scribe/internal/document"
)

// exportMD is a shared goldmark instance for HTML export. GFM gives us
// tables, which the structured-content builders emit.
var exportMD = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ExportMarkdown renders the document as markdown text. Inline markup is
// translated back to markdown syntax so the output round-trips through the
// block parser and renders cleanly in the terminal.
func (d *Doc) ExportMarkdown() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exportMarkdownLocked()
}

func (d *Doc) exportMarkdownLocked() string {
	all := make([]*node, 0, len(d.nodes)+1)
	all = append(all, d.nodes...)
	if d.cur != nil && (d.cur.text != "" || d.cur.kind != document.BlockParagraph) {
		all = append(all, d.cur)
	}

	var b strings.Builder
	var inList document.ListKind
	ordinal := 0

	for _, n := range all {
		if n.kind == document.BlockListItem {
			if inList != n.list {
				if inList != "" {
					b.WriteString("\n")
				}
				ordinal = 0
			}
			inList = n.list
			ordinal++
			if n.list == document.ListOrdered {
				fmt.Fprintf(&b, "%d. %s\n", ordinal, inlineToMarkdown(n.text))
			} else {
				fmt.Fprintf(&b, "- %s\n", inlineToMarkdown(n.text))
			}
			continue
		}

		if inList != "" {
			b.WriteString("\n")
			inList = ""
			ordinal = 0
		}

		switch n.kind {
		case document.BlockHeading:
			fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", n.level), inlineToMarkdown(n.text))
		case document.BlockQuote:
			fmt.Fprintf(&b, "> %s\n\n", inlineToMarkdown(n.text))
		case document.BlockDiagram:
			fmt.Fprintf(&b, "```mermaid\n%s\n```\n\n", strings.TrimRight(n.text, "\n"))
		default:
			if n.raw {
				b.WriteString(rawToMarkdown(n.text))
				b.WriteString("\n\n")
			} else {
				b.WriteString(inlineToMarkdown(n.text))
				b.WriteString("\n\n")
			}
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// ExportHTML renders the document as HTML via goldmark.
func (d *Doc) ExportHTML() (string, error) {
	var buf bytes.Buffer
	if err := exportMD.Convert([]byte(d.ExportMarkdown()), &buf); err != nil {
		return "", fmt.Errorf("memdoc: html export: %w", err)
	}
	return buf.String(), nil
}

// inlineToMarkdown walks inline HTML markup and produces the markdown
// equivalent: <strong> to **, <em> to *, <code> to backticks, <a> to a link.
// Plain text passes through untouched.
func inlineToMarkdown(src string) string {
	if !strings.ContainsRune(src, '<') && !strings.ContainsRune(src, '&') {
		return src
	}

	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	var linkText strings.Builder
	var href string
	inLink := false

	out := func(s string) {
		if inLink {
			linkText.WriteString(s)
		} else {
			b.WriteString(s)
		}
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			out(z.Token().Data)
		case html.StartTagToken:
			t := z.Token()
			switch t.Data {
			case "strong", "b":
				out("**")
			case "em", "i":
				out("*")
			case "code":
				out("`")
			case "a":
				inLink = true
				linkText.Reset()
				href = ""
				for _, a := range t.Attr {
					if a.Key == "href" {
						href = a.Val
					}
				}
			}
		case html.EndTagToken:
			t := z.Token()
			switch t.Data {
			case "strong", "b":
				out("**")
			case "em", "i":
				out("*")
			case "code":
				out("`")
			case "a":
				inLink = false
				fmt.Fprintf(&b, "[%s](%s)", linkText.String(), href)
			}
		}
	}
}

// rawToMarkdown converts a raw block fragment back to markdown. It knows the
// fragments the engine itself produces: horizontal rules and code blocks.
// Anything else falls back to the inline translation.
func rawToMarkdown(src string) string {
	t := strings.TrimSpace(src)
	lower := strings.ToLower(t)
	if strings.HasPrefix(lower, "<hr") {
		return "---"
	}
	if strings.HasPrefix(lower, "<pre") {
		lang, body := parseCodeFragment(t)
		return "```" + lang + "\n" + strings.TrimRight(body, "\n") + "\n```"
	}
	return inlineToMarkdown(t)
}

// parseCodeFragment extracts the language hint and body of a
// <pre><code class="language-x"> fragment.
func parseCodeFragment(src string) (lang, body string) {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return lang, b.String()
		case html.StartTagToken:
			t := z.Token()
			if t.Data == "code" {
				for _, a := range t.Attr {
					if a.Key == "class" {
						lang = strings.TrimPrefix(a.Val, "language-")
					}
				}
			}
		case html.TextToken:
			b.WriteString(z.Token().Data)
		}
	}
}
