package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fluxnote/scribe/internal/config"
	"github.com/fluxnote/scribe/internal/document/memdoc"
	"github.com/fluxnote/scribe/internal/history"
	"github.com/fluxnote/scribe/internal/tui"
	"github.com/fluxnote/scribe/internal/ui"
	"github.com/fluxnote/scribe/internal/writer"
)

var (
	previewRaw    bool
	previewPacing int
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Stream content into a document, then accept or reject it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewRaw, "raw", false, "Insert as plain text instead of parsing markdown")
	previewCmd.Flags().IntVar(&previewPacing, "pacing", 0, "Tick interval in milliseconds (0 = config default)")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	content, err := readContent(args)
	if err != nil {
		return err
	}

	styles := ui.NewStylesWithTheme(os.Stderr, ui.ThemeFromConfig(cfg.Theme))
	var docOpts []memdoc.Option
	if cfg.Preview.FreshMarkerMs > 0 {
		docOpts = append(docOpts, memdoc.WithFreshMarker(time.Duration(cfg.Preview.FreshMarkerMs)*time.Millisecond))
	}
	doc := memdoc.New(docOpts...)
	w := writer.New(doc, writer.WithLogf(logf))

	opts := writer.Options{
		Markdown: !previewRaw,
		Pacing:   pacing(cfg, previewPacing),
		Strict:   cfg.Write.Strict,
		Focus:    true,
	}

	model := tui.New(doc, w, content, opts, styles)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("preview ui: %w", err)
	}
	if err := model.Err(); err != nil {
		return err
	}

	status := history.StatusRejected
	switch model.Outcome() {
	case tui.OutcomeAccepted:
		status = history.StatusAccepted
	case tui.OutcomeCancelled:
		status = history.StatusCancelled
	}
	previewID := ""
	var res *writer.Result
	if r := model.Result(); r != nil {
		previewID = r.PreviewID
		res = r.Write
	}
	recordRun(cfg, history.KindPreview, status, res, content, previewID)

	switch model.Outcome() {
	case tui.OutcomeAccepted:
		fmt.Fprintln(os.Stderr, styles.Success.Render("accepted"))
		return printDocument(doc, false)
	default:
		fmt.Fprintln(os.Stderr, styles.Muted.Render(string(model.Outcome())))
		return nil
	}
}
