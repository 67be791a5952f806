// Package cmd wires the scribe CLI: stream markdown or plain text into an
// in-memory structured document, preview with accept/reject, and inspect
// the run history.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Stream AI-generated markdown into a structured document",
	Long: `scribe converts a markdown-flavored text stream into structured document
edits and applies them instantly or as a paced animation, with a
preview/accept/reject workflow that can roll everything back.

Examples:
  scribe write notes.md              # insert a file's content, print the document
  cat reply.md | scribe write -a     # animate insertion from stdin
  scribe preview draft.md            # interactive accept/reject preview
  scribe history                     # recent runs`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

var debugFlag bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log engine events to stderr")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// logf is the engine debug hook; silent unless --debug is set.
func logf(format string, args ...any) {
	if debugFlag {
		fmt.Fprintf(os.Stderr, "[scribe] "+format+"\n", args...)
	}
}

// readContent reads the stream from the file argument, or stdin when absent.
func readContent(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
