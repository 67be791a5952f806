package writer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fluxnote/scribe/internal/document"
	"github.com/fluxnote/scribe/internal/markdown"
	"github.com/fluxnote/scribe/internal/preview"
)

// ErrNoDiagramSupport is returned for mermaid input when the host surface
// does not implement document.DiagramInserter.
var ErrNoDiagramSupport = errors.New("writer: host has no diagram command")

// Writer is the engine instance: one Writer is bound to one host surface at
// construction and never rebound. All insertion entry points and the preview
// workflow hang off it.
type Writer struct {
	surface  document.Surface
	previews *preview.Manager
	logf     func(string, ...any)

	mu        sync.Mutex
	animating bool
}

// Option configures a Writer at construction.
type Option func(*Writer)

// WithLogf sets the debug log hook shared by the applier and the preview
// manager.
func WithLogf(f func(string, ...any)) Option {
	return func(w *Writer) { w.logf = f }
}

// New binds a Writer to a host surface.
func New(surface document.Surface, opts ...Option) *Writer {
	w := &Writer{surface: surface, logf: func(string, ...any) {}}
	for _, opt := range opts {
		opt(w)
	}
	w.previews = preview.NewManager(surface, preview.WithLogf(w.logf))
	return w
}

// Options controls one insertion.
type Options struct {
	// Markdown parses the content into block structure before applying.
	// When false the content is inserted as plain text.
	Markdown bool
	// Animate paces the insertion tick by tick instead of applying it all
	// at once.
	Animate bool
	// Pacing is the tick interval for animated insertion. Zero means
	// DefaultPacing.
	Pacing time.Duration
	// Strict stops on the first host-rejected mutation instead of
	// continuing with the next one.
	Strict bool
	// Focus moves the host cursor to the end of the document first.
	Focus bool
	// OnProgress fires after each committed animation unit.
	OnProgress func(done, total int)
}

// granularity: markdown animates by block line, plain content by character.
func (o Options) granularity() Granularity {
	if o.Markdown {
		return GranularityLine
	}
	return GranularityChar
}

// Result reports what an insertion did.
type Result struct {
	UnitsTotal  int
	UnitsDone   int
	Granularity Granularity
	Report      ApplyReport
}

// WriteContent inserts content into the bound surface, one-shot. Markdown
// content is parsed into mutations first; plain content is inserted as text.
// With Animate set the insertion is paced and cancellable through ctx.
func (w *Writer) WriteContent(ctx context.Context, content string, opts Options) (*Result, error) {
	if content == "" {
		return &Result{Granularity: opts.granularity()}, nil
	}
	if opts.Focus {
		w.surface.Focus("end")
	}
	if opts.Animate {
		return w.animate(ctx, content, opts)
	}
	return w.applyNow(content, opts)
}

// StreamContent is WriteContent with animation forced on.
func (w *Writer) StreamContent(ctx context.Context, content string, opts Options) (*Result, error) {
	opts.Animate = true
	return w.WriteContent(ctx, content, opts)
}

// applyNow replays everything synchronously.
func (w *Writer) applyNow(content string, opts Options) (*Result, error) {
	res := &Result{Granularity: opts.granularity()}
	a := &applier{surface: w.surface, strict: opts.Strict, logf: w.logf}

	var muts []document.Mutation
	if opts.Markdown {
		muts = markdown.Parse(content)
	} else {
		muts = plainMutations(content)
	}
	res.UnitsTotal = 1
	if err := a.apply(muts, &res.Report); err != nil {
		return res, err
	}
	res.UnitsDone = 1
	return res, nil
}

// animate paces the insertion. Exactly one animation may run per surface;
// a second start fails with ErrAnimationActive.
func (w *Writer) animate(ctx context.Context, content string, opts Options) (*Result, error) {
	w.mu.Lock()
	if w.animating {
		w.mu.Unlock()
		return nil, ErrAnimationActive
	}
	w.animating = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.animating = false
		w.mu.Unlock()
	}()

	res := &Result{Granularity: opts.granularity()}
	a := &applier{surface: w.surface, strict: opts.Strict, logf: w.logf}

	var units []func() error
	if opts.Markdown {
		for _, group := range markdown.ParseLines(content) {
			muts := group
			units = append(units, func() error {
				return a.apply(muts, &res.Report)
			})
		}
	} else {
		for _, m := range plainMutations(content) {
			mut := m
			units = append(units, func() error {
				return a.apply([]document.Mutation{mut}, &res.Report)
			})
		}
	}

	res.UnitsTotal = len(units)
	s := &scheduler{pacing: opts.Pacing, onProgress: opts.OnProgress}
	done, err := s.run(ctx, units, func(i int, err error) {
		w.logf("animation unit %d failed: %v", i, err)
	})
	res.UnitsDone = done
	return res, err
}

// plainMutations flattens plain text into per-character insertions, with
// newlines mapped to paragraph breaks.
func plainMutations(content string) []document.Mutation {
	muts := make([]document.Mutation, 0, len(content))
	for _, r := range content {
		if r == '\n' {
			muts = append(muts, document.Enter())
			continue
		}
		muts = append(muts, document.InsertInline(string(r)))
	}
	return muts
}

// InsertStructured builds markup for structured data (heading, list, table,
// quote) and inserts it through WriteContent. Mermaid input bypasses markup
// and goes straight to the host's diagram command.
func (w *Writer) InsertStructured(ctx context.Context, s markdown.Structured, opts Options) (*Result, error) {
	if s.Kind == markdown.StructMermaid {
		di, ok := w.surface.(document.DiagramInserter)
		if !ok {
			return nil, ErrNoDiagramSupport
		}
		if err := di.InsertDiagram("mermaid", s.Definition); err != nil {
			return nil, fmt.Errorf("writer: insert diagram: %w", err)
		}
		return &Result{UnitsTotal: 1, UnitsDone: 1}, nil
	}

	md, err := s.Markdown()
	if err != nil {
		return nil, err
	}
	opts.Markdown = true
	return w.WriteContent(ctx, md, opts)
}

// PreviewResult is returned by CreatePreview.
type PreviewResult struct {
	// PreviewID tags every node the preview wrote.
	PreviewID string
	// Original is the pre-insertion document state. Owned by the session;
	// discarded on accept, restored on reject.
	Original document.Snapshot
	// Write reports the insertion that ran under the session.
	Write *Result
}

// CreatePreview begins a preview session and streams the content into the
// document under its tag. The session stays active afterwards — also when
// the animation was cancelled mid-run — until AcceptPreview or
// RejectPreview resolves it. Fails with preview.ErrConflict while another
// session is active.
func (w *Writer) CreatePreview(ctx context.Context, content string, opts Options) (*PreviewResult, error) {
	session, err := w.previews.Begin()
	if err != nil {
		return nil, err
	}
	opts.Animate = true
	res, err := w.WriteContent(ctx, content, opts)
	pr := &PreviewResult{
		PreviewID: session.ID(),
		Original:  session.Snapshot(),
		Write:     res,
	}
	return pr, err
}

// AcceptPreview keeps the previewed content and detags it.
func (w *Writer) AcceptPreview() error { return w.previews.Accept() }

// RejectPreview discards the previewed content and restores the snapshot.
func (w *Writer) RejectPreview() error { return w.previews.Reject() }

// CancelPreview force-cancels an active session; a no-op when idle.
func (w *Writer) CancelPreview() error { return w.previews.Cancel() }

// ActivePreviewID returns the active session id, or "" when idle.
func (w *Writer) ActivePreviewID() string {
	if s := w.previews.Active(); s != nil {
		return s.ID()
	}
	return ""
}
