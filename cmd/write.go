package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/fluxnote/scribe/internal/config"
	"github.com/fluxnote/scribe/internal/document/memdoc"
	"github.com/fluxnote/scribe/internal/history"
	"github.com/fluxnote/scribe/internal/signal"
	"github.com/fluxnote/scribe/internal/ui"
	"github.com/fluxnote/scribe/internal/writer"
)

var (
	writeAnimate bool
	writeRaw     bool
	writeHTML    bool
	writePacing  int
	writeStrict  bool
)

var writeCmd = &cobra.Command{
	Use:   "write [file]",
	Short: "Insert content into a fresh document and print the result",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWrite,
}

func init() {
	writeCmd.Flags().BoolVarP(&writeAnimate, "animate", "a", false, "Pace the insertion tick by tick")
	writeCmd.Flags().BoolVar(&writeRaw, "raw", false, "Insert as plain text instead of parsing markdown")
	writeCmd.Flags().BoolVar(&writeHTML, "html", false, "Print the document as HTML")
	writeCmd.Flags().IntVar(&writePacing, "pacing", 0, "Tick interval in milliseconds (0 = config default)")
	writeCmd.Flags().BoolVar(&writeStrict, "strict", false, "Stop on the first rejected mutation")
	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	content, err := readContent(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext()
	defer stop()

	styles := ui.NewStylesWithTheme(os.Stderr, ui.ThemeFromConfig(cfg.Theme))
	doc := memdoc.New()
	w := writer.New(doc, writer.WithLogf(logf))

	opts := writer.Options{
		Markdown: !writeRaw,
		Animate:  writeAnimate,
		Pacing:   pacing(cfg, writePacing),
		Strict:   writeStrict || cfg.Write.Strict,
		Focus:    true,
	}
	if writeAnimate {
		opts.OnProgress = func(done, total int) {
			fmt.Fprintf(os.Stderr, "\r%s", styles.Muted.Render(fmt.Sprintf("inserting %d/%d", done, total)))
		}
	}

	res, err := w.WriteContent(ctx, content, opts)
	if writeAnimate {
		fmt.Fprintln(os.Stderr)
	}
	status := history.StatusCompleted
	switch {
	case errors.Is(err, writer.ErrCancelled):
		status = history.StatusCancelled
		fmt.Fprintln(os.Stderr, styles.Muted.Render("cancelled; partial content kept"))
	case err != nil:
		recordRun(cfg, history.KindWrite, history.StatusFailed, res, content, "")
		return err
	}
	recordRun(cfg, history.KindWrite, status, res, content, "")

	if len(res.Report.Rejected) > 0 {
		fmt.Fprintln(os.Stderr, styles.Error.Render(
			fmt.Sprintf("%d mutation(s) rejected by the document", len(res.Report.Rejected))))
	}

	return printDocument(doc, writeHTML)
}

// pacing resolves the tick interval from the flag, falling back to config.
func pacing(cfg *config.Config, flagMs int) time.Duration {
	if flagMs > 0 {
		return time.Duration(flagMs) * time.Millisecond
	}
	return time.Duration(cfg.Write.PacingMs) * time.Millisecond
}

// printDocument renders the final document to stdout.
func printDocument(doc *memdoc.Doc, asHTML bool) error {
	if asHTML {
		out, err := doc.ExportHTML()
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(doc.ExportMarkdown())
		return nil
	}
	out, err := r.Render(doc.ExportMarkdown())
	if err != nil {
		fmt.Print(doc.ExportMarkdown())
		return nil
	}
	fmt.Print(out)
	return nil
}

// recordRun appends to the run log; failures are logged, never fatal.
func recordRun(cfg *config.Config, kind, status string, res *writer.Result, content, previewID string) {
	if !cfg.History.Enabled {
		return
	}
	path := cfg.History.Path
	if path == "" {
		p, err := history.DefaultPath()
		if err != nil {
			logf("history: %v", err)
			return
		}
		path = p
	}
	store, err := history.Open(path)
	if err != nil {
		logf("history: %v", err)
		return
	}
	defer store.Close()

	e := history.Entry{
		Kind:      kind,
		Status:    status,
		Chars:     len(content),
		PreviewID: previewID,
	}
	if res != nil {
		e.Granularity = res.Granularity.String()
		e.UnitsTotal = res.UnitsTotal
		e.UnitsDone = res.UnitsDone
		e.Rejected = len(res.Report.Rejected)
	}
	if err := store.Record(context.Background(), e); err != nil {
		logf("history: %v", err)
	}
}
