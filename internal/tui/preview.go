// Package tui is the interactive front end for preview insertions: it
// streams AI content into an in-memory document with live rendering, then
// lets the user accept or reject the result after seeing a diff.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/fluxnote/scribe/internal/document/memdoc"
	"github.com/fluxnote/scribe/internal/ui"
	"github.com/fluxnote/scribe/internal/writer"
)

type phase int

const (
	phaseStreaming phase = iota
	phaseDeciding
	phaseDone
)

// Outcome is how the preview ended.
type Outcome string

const (
	OutcomeAccepted  Outcome = "accepted"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

type progressMsg struct {
	done  int
	total int
}

type writeDoneMsg struct {
	res *writer.PreviewResult
	err error
}

// Model drives one preview run.
type Model struct {
	doc     *memdoc.Doc
	w       *writer.Writer
	content string
	opts    writer.Options
	styles  *ui.Styles

	ctx    context.Context
	cancel context.CancelFunc
	events chan tea.Msg

	spin     spinner.Model
	renderer *glamour.TermRenderer
	width    int

	ph        phase
	done      int
	total     int
	cancelled bool
	res       *writer.PreviewResult
	err       error
	outcome   Outcome
	rendered  string
}

// New builds a preview model. The writer must be bound to doc.
func New(doc *memdoc.Doc, w *writer.Writer, content string, opts writer.Options, styles *ui.Styles) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return &Model{
		doc:     doc,
		w:       w,
		content: content,
		opts:    opts,
		styles:  styles,
		ctx:     ctx,
		cancel:  cancel,
		events:  make(chan tea.Msg, 64),
		spin:    sp,
		width:   80,
	}
}

// Outcome reports how the run ended. Only meaningful after the program exits.
func (m *Model) Outcome() Outcome { return m.outcome }

// Result returns the insertion result, nil if the write never finished.
func (m *Model) Result() *writer.PreviewResult { return m.res }

// Err returns the terminal error, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.startWrite(), m.waitForEvent())
}

// startWrite launches the preview insertion. Progress lands on the event
// channel; the final result arrives as writeDoneMsg.
func (m *Model) startWrite() tea.Cmd {
	return func() tea.Msg {
		opts := m.opts
		opts.OnProgress = func(done, total int) {
			m.events <- progressMsg{done: done, total: total}
		}
		res, err := m.w.CreatePreview(m.ctx, m.content, opts)
		return writeDoneMsg{res: res, err: err}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.renderer = nil // rebuilt lazily at the new width
		m.redraw()
		return m, nil

	case progressMsg:
		m.done = msg.done
		m.total = msg.total
		m.redraw()
		return m, m.waitForEvent()

	case writeDoneMsg:
		m.res = msg.res
		switch {
		case msg.err == nil:
			m.ph = phaseDeciding
		case errors.Is(msg.err, writer.ErrCancelled):
			// Partial content stays; the user still decides.
			m.cancelled = true
			m.ph = phaseDeciding
		default:
			m.err = msg.err
			m.outcome = OutcomeFailed
			m.ph = phaseDone
			return m, tea.Quit
		}
		m.redraw()
		return m, nil

	case spinner.TickMsg:
		if m.ph != phaseStreaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		if m.ph == phaseStreaming {
			// Cooperative cancel; the scheduler stops at the next tick
			// and writeDoneMsg moves us to the decision phase.
			m.cancel()
			return m, nil
		}
		return m.resolve(false)
	case "a", "y":
		if m.ph == phaseDeciding {
			return m.resolve(true)
		}
	case "r", "n":
		if m.ph == phaseDeciding {
			return m.resolve(false)
		}
	}
	return m, nil
}

func (m *Model) resolve(accept bool) (tea.Model, tea.Cmd) {
	if accept {
		if err := m.w.AcceptPreview(); err != nil {
			m.err = err
			m.outcome = OutcomeFailed
		} else {
			m.outcome = OutcomeAccepted
		}
	} else {
		if err := m.w.RejectPreview(); err != nil {
			m.err = err
			m.outcome = OutcomeFailed
		} else if m.cancelled {
			m.outcome = OutcomeCancelled
		} else {
			m.outcome = OutcomeRejected
		}
	}
	m.ph = phaseDone
	return m, tea.Quit
}

// redraw re-renders the document body with glamour at the current width.
func (m *Model) redraw() {
	if m.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(min(m.width-2, 100)),
		)
		if err != nil {
			m.rendered = m.doc.ExportMarkdown()
			return
		}
		m.renderer = r
	}
	out, err := m.renderer.Render(m.doc.ExportMarkdown())
	if err != nil {
		m.rendered = m.doc.ExportMarkdown()
		return
	}
	m.rendered = out
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.rendered)
	b.WriteString("\n")

	switch m.ph {
	case phaseStreaming:
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			m.spin.View(),
			m.styles.Muted.Render("streaming"),
			progressBar(m.done, m.total, m.width-24)))
	case phaseDeciding:
		if m.res != nil {
			d := m.styles.RenderDiff("document", m.res.Original.Markdown(), m.doc.ExportMarkdown())
			if d != "" {
				b.WriteString(d)
				b.WriteString("\n")
			}
		}
		note := "accept [a] or reject [r] the inserted content"
		if m.cancelled {
			note = "stream cancelled; partial content shown. accept [a] or reject [r]"
		}
		b.WriteString(m.styles.Highlighted.Render(wordwrap.String(note, m.width-2)))
		b.WriteString("\n")
	}
	return b.String()
}

// progressBar renders a fixed-width unit bar like "[████░░░░] 4/10".
func progressBar(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	label := fmt.Sprintf(" %d/%d", done, total)
	barWidth := width - runewidth.StringWidth(label) - 2
	if barWidth < 4 {
		barWidth = 4
	}
	filled := barWidth * done / total
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]" + label
}
