package ui

import (
	"strings"

	diff "github.com/shogoki/gotextdiff"
)

// RenderDiff returns a colorized unified diff between two document
// renderings, used by the preview view to show what a session changed.
// Returns "" when the contents are equal.
func (s *Styles) RenderDiff(name, oldContent, newContent string) string {
	if oldContent == newContent {
		return ""
	}

	diffBytes := diff.Diff(name, []byte(oldContent), name, []byte(newContent))
	if len(diffBytes) == 0 {
		return ""
	}

	var b strings.Builder
	for _, line := range strings.Split(string(diffBytes), "\n") {
		if strings.HasPrefix(line, "diff ") ||
			strings.HasPrefix(line, "--- ") ||
			strings.HasPrefix(line, "+++ ") {
			continue
		}
		if line == "" {
			continue
		}
		switch line[0] {
		case '+':
			b.WriteString(s.DiffAdd.Render(line))
		case '-':
			b.WriteString(s.DiffRemove.Render(line))
		case '@':
			b.WriteString(s.Muted.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
