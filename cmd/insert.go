package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fluxnote/scribe/internal/config"
	"github.com/fluxnote/scribe/internal/document"
	"github.com/fluxnote/scribe/internal/document/memdoc"
	"github.com/fluxnote/scribe/internal/history"
	"github.com/fluxnote/scribe/internal/markdown"
	"github.com/fluxnote/scribe/internal/writer"
)

var (
	insertLevel   int
	insertText    string
	insertOrdered bool
	insertItems   []string
	insertHeaders []string
	insertRows    []string
)

var insertCmd = &cobra.Command{
	Use:   "insert <heading|list|table|quote|mermaid>",
	Short: "Build structured content and insert it into a fresh document",
	Args:  cobra.ExactArgs(1),
	RunE:  runInsert,
}

func init() {
	insertCmd.Flags().IntVar(&insertLevel, "level", 2, "Heading level")
	insertCmd.Flags().StringVar(&insertText, "text", "", "Text for heading, quote or mermaid definition")
	insertCmd.Flags().BoolVar(&insertOrdered, "ordered", false, "Build an ordered list")
	insertCmd.Flags().StringArrayVar(&insertItems, "item", nil, "List item (repeatable)")
	insertCmd.Flags().StringArrayVar(&insertHeaders, "header", nil, "Table header (repeatable)")
	insertCmd.Flags().StringArrayVar(&insertRows, "row", nil, "Table row, cells separated by '|' (repeatable)")
	rootCmd.AddCommand(insertCmd)
}

func runInsert(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s := markdown.Structured{Level: insertLevel, Text: insertText, Items: insertItems, Headers: insertHeaders}
	switch args[0] {
	case "heading":
		s.Kind = markdown.StructHeading
	case "list":
		s.Kind = markdown.StructList
		s.List = document.ListBullet
		if insertOrdered {
			s.List = document.ListOrdered
		}
	case "table":
		s.Kind = markdown.StructTable
		for _, row := range insertRows {
			s.Rows = append(s.Rows, strings.Split(row, "|"))
		}
	case "quote":
		s.Kind = markdown.StructQuote
	case "mermaid":
		s.Kind = markdown.StructMermaid
		s.Definition = insertText
	default:
		return fmt.Errorf("unknown structured kind %q", args[0])
	}

	doc := memdoc.New()
	w := writer.New(doc, writer.WithLogf(logf))
	res, err := w.InsertStructured(context.Background(), s, writer.Options{})
	if err != nil {
		return err
	}
	recordRun(cfg, history.KindWrite, history.StatusCompleted, res, insertText, "")
	return printDocument(doc, false)
}
