// Package ui holds the terminal color theme and styled text helpers shared
// by the CLI and the interactive preview.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/fluxnote/scribe/internal/config"
)

// Theme defines the color palette.
type Theme struct {
	Primary lipgloss.Color // accents, highlights
	Success lipgloss.Color // accepted content, success states
	Error   lipgloss.Color // rejected content, errors
	Muted   lipgloss.Color // dimmed/secondary text
	Spinner lipgloss.Color // streaming spinner
}

// DefaultTheme returns the default palette (gruvbox).
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#83a598"), // gruvbox aqua
		Success: lipgloss.Color("#b8bb26"), // gruvbox green
		Error:   lipgloss.Color("#fb4934"), // gruvbox red
		Muted:   lipgloss.Color("#928374"), // gruvbox gray
		Spinner: lipgloss.Color("#d3869b"), // gruvbox purple
	}
}

// ThemeFromConfig applies config overrides to the default theme.
func ThemeFromConfig(cfg config.ThemeConfig) *Theme {
	theme := DefaultTheme()
	if cfg.Primary != "" {
		theme.Primary = lipgloss.Color(cfg.Primary)
	}
	if cfg.Success != "" {
		theme.Success = lipgloss.Color(cfg.Success)
	}
	if cfg.Error != "" {
		theme.Error = lipgloss.Color(cfg.Error)
	}
	if cfg.Muted != "" {
		theme.Muted = lipgloss.Color(cfg.Muted)
	}
	return theme
}

// Styles are styled text helpers bound to a renderer.
type Styles struct {
	renderer *lipgloss.Renderer
	theme    *Theme

	Title       lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Muted       lipgloss.Style
	Bold        lipgloss.Style
	Highlighted lipgloss.Style
	Spinner     lipgloss.Style

	DiffAdd    lipgloss.Style
	DiffRemove lipgloss.Style
}

// NewStyles creates styles for the given output with the default theme.
func NewStyles(output *os.File) *Styles {
	return NewStylesWithTheme(output, DefaultTheme())
}

// NewStylesWithTheme creates styles bound to a specific theme.
func NewStylesWithTheme(output *os.File, theme *Theme) *Styles {
	r := lipgloss.NewRenderer(output)
	return &Styles{
		renderer: r,
		theme:    theme,

		Title:       r.NewStyle().Bold(true),
		Success:     r.NewStyle().Foreground(theme.Success),
		Error:       r.NewStyle().Foreground(theme.Error),
		Muted:       r.NewStyle().Foreground(theme.Muted),
		Bold:        r.NewStyle().Bold(true),
		Highlighted: r.NewStyle().Bold(true).Foreground(theme.Primary),
		Spinner:     r.NewStyle().Foreground(theme.Spinner),

		DiffAdd:    r.NewStyle().Foreground(theme.Success),
		DiffRemove: r.NewStyle().Foreground(theme.Error),
	}
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
