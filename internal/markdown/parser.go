package markdown

import (
	"html"
	"regexp"
	"strings"

	"github.com/fluxnote/scribe/internal/document"
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletRe  = regexp.MustCompile(`^[*+-]\s+(.*)$`)
	orderedRe = regexp.MustCompile(`^\d+\.\s+(.*)$`)
	quoteRe   = regexp.MustCompile(`^>\s?(.*)$`)
	ruleRe    = regexp.MustCompile(`^ {0,3}(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)
)

// parser holds the little state line classification needs: whether a list
// run is open and of which kind, and the fence buffer for code blocks.
type parser struct {
	inList   bool
	listKind document.ListKind

	inFence   bool
	fenceInfo string
	fenceBuf  []string

	groups [][]document.Mutation
}

// ParseLines splits the stream into lines and returns one mutation group per
// line event, in document order. The animation scheduler applies one group
// per tick in line mode; Parse flattens the groups for immediate insertion.
func ParseLines(stream string) [][]document.Mutation {
	p := &parser{}
	stream = strings.ReplaceAll(stream, "\r\n", "\n")
	for _, line := range strings.Split(stream, "\n") {
		p.line(line)
	}
	p.flush()
	return p.groups
}

// Parse converts the stream into a flat, ordered mutation sequence.
func Parse(stream string) []document.Mutation {
	var out []document.Mutation
	for _, g := range ParseLines(stream) {
		out = append(out, g...)
	}
	return out
}

func (p *parser) emit(muts ...document.Mutation) {
	p.groups = append(p.groups, muts)
}

func (p *parser) closeList() {
	p.inList = false
	p.listKind = ""
}

func (p *parser) line(line string) {
	if p.inFence {
		if isClosingFence(line) {
			p.emit(document.InsertRaw(codeFragment(p.fenceInfo, p.fenceBuf)))
			p.inFence = false
			p.fenceInfo = ""
			p.fenceBuf = nil
			return
		}
		p.fenceBuf = append(p.fenceBuf, line)
		return
	}

	switch {
	case strings.TrimSpace(line) == "":
		p.closeList()
		p.emit(document.Enter())

	case strings.HasPrefix(line, "```"):
		p.closeList()
		p.inFence = true
		p.fenceInfo = strings.TrimSpace(strings.TrimPrefix(line, "```"))
		p.fenceBuf = nil

	case headingRe.MatchString(line):
		m := headingRe.FindStringSubmatch(line)
		p.closeList()
		level := len(m[1])
		if level > 6 {
			level = 6
		}
		p.emit(
			document.SetBlock(document.BlockHeading, level),
			document.InsertInline(Translate(m[2])),
			document.Enter(),
		)

	case ruleRe.MatchString(line):
		p.closeList()
		p.emit(document.InsertRaw("<hr>"))

	case bulletRe.MatchString(line):
		p.item(document.ListBullet, bulletRe.FindStringSubmatch(line)[1])

	case orderedRe.MatchString(line):
		p.item(document.ListOrdered, orderedRe.FindStringSubmatch(line)[1])

	case quoteRe.MatchString(line):
		m := quoteRe.FindStringSubmatch(line)
		p.closeList()
		p.emit(
			document.SetBlock(document.BlockQuote, 0),
			document.InsertInline(Translate(m[1])),
			document.Enter(),
		)

	default:
		p.closeList()
		p.emit(
			document.InsertInline(Translate(line)),
			document.Enter(),
		)
	}
}

// item handles one list line. The first item of a run opens the list; each
// consecutive item of the same kind splits the previous one; a kind change
// starts a fresh run.
func (p *parser) item(kind document.ListKind, rest string) {
	if p.inList && p.listKind == kind {
		p.emit(document.SplitItem(), document.InsertInline(Translate(rest)))
		return
	}
	p.inList = true
	p.listKind = kind
	p.emit(document.ToggleList(kind), document.InsertInline(Translate(rest)))
}

// flush finishes the stream. A fence that never closed degrades to plain
// paragraphs instead of dropping the buffered lines.
func (p *parser) flush() {
	if !p.inFence {
		return
	}
	for _, l := range p.fenceBuf {
		if strings.TrimSpace(l) == "" {
			p.emit(document.Enter())
			continue
		}
		p.emit(document.InsertInline(Translate(l)), document.Enter())
	}
	p.inFence = false
	p.fenceInfo = ""
	p.fenceBuf = nil
}

// isClosingFence reports whether a line closes an open backtick fence.
func isClosingFence(line string) bool {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, "```") {
		return false
	}
	return strings.Trim(t, "`") == ""
}

// codeFragment builds the raw markup for one fenced code block.
func codeFragment(info string, lines []string) string {
	var b strings.Builder
	b.WriteString("<pre><code")
	if info != "" {
		b.WriteString(` class="language-` + html.EscapeString(info) + `"`)
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(strings.Join(lines, "\n")))
	b.WriteString("</code></pre>")
	return b.String()
}
