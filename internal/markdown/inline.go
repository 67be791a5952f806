// Package markdown turns the markdown subset found in streamed AI output
// into document mutations. It is deliberately not a CommonMark parser: the
// grammar is the handful of constructs LLMs reliably emit (headings, flat
// lists, blockquotes, fenced code, bold/italic/code/link), classified line
// by line so the result is a typed mutation list that needs no host to test.
package markdown

import (
	"html"
	"regexp"
)

// Substitution order matters: bold before italic so ** never half-matches,
// code as its own pass, links last.
var (
	boldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)
	codeRe   = regexp.MustCompile("`([^`]+)`")
	linkRe   = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
)

// Translate resolves the inline markup subset of one line to final markup.
// It is pure and total: unmatched markers pass through literally, and a
// fragment with no remaining raw markers translates to itself. Only code
// span content is HTML-escaped; everything else is inserted as typed.
func Translate(line string) string {
	out := boldRe.ReplaceAllString(line, "<strong>$1</strong>")
	out = italicRe.ReplaceAllString(out, "<em>$1</em>")
	out = codeRe.ReplaceAllStringFunc(out, func(m string) string {
		return "<code>" + html.EscapeString(m[1:len(m)-1]) + "</code>"
	})
	out = linkRe.ReplaceAllString(out, `<a href="$2">$1</a>`)
	return out
}
