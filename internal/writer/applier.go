// Package writer applies parsed document mutations to a host surface,
// immediately or as a cancellable, time-paced animation, and exposes the
// engine's public entry points.
package writer

import (
	"fmt"

	"github.com/fluxnote/scribe/internal/document"
)

// Rejected records one mutation the host refused.
type Rejected struct {
	Index    int
	Mutation document.Mutation
	Err      error
}

// ApplyReport summarizes one replay of a mutation sequence.
type ApplyReport struct {
	Applied  int
	Rejected []Rejected
}

// applier replays mutations against the host in order. AI-generated
// markdown is not guaranteed well-formed, so the default policy is lenient:
// a rejected mutation is recorded and the next one is still attempted.
// Strict mode stops on the first rejection instead.
type applier struct {
	surface document.Surface
	strict  bool
	logf    func(string, ...any)
}

func (a *applier) apply(muts []document.Mutation, rep *ApplyReport) error {
	for i, m := range muts {
		if err := a.applyOne(m); err != nil {
			rep.Rejected = append(rep.Rejected, Rejected{Index: i, Mutation: m, Err: err})
			a.logf("mutation rejected: %s: %v", m, err)
			if a.strict {
				return fmt.Errorf("writer: apply %s: %w", m, err)
			}
			continue
		}
		rep.Applied++
	}
	return nil
}

func (a *applier) applyOne(m document.Mutation) error {
	switch m.Op {
	case document.OpSetBlock:
		return a.surface.SetBlockType(m.Kind, m.Level)
	case document.OpToggleList:
		return a.surface.ToggleList(m.List)
	case document.OpSplitItem:
		return a.surface.SplitListItem()
	case document.OpInsertInline:
		return a.surface.InsertInline(m.Markup)
	case document.OpEnter:
		return a.surface.InsertParagraphBreak()
	case document.OpInsertRaw:
		return a.surface.InsertRaw(m.Markup)
	default:
		return fmt.Errorf("writer: unknown op %d", m.Op)
	}
}
