package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	successColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray
	primaryColor = lipgloss.Color("#A78BFA") // Purple
)

// styles renders console output. Output that is not a terminal gets
// plain styles, which print text unchanged.
type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	key     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	if !isTerminal(w) {
		plain := lipgloss.NewStyle()
		return styles{title: plain, success: plain, warning: plain, failure: plain, muted: plain, key: plain}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(primaryColor),
		success: lipgloss.NewStyle().Foreground(successColor),
		warning: lipgloss.NewStyle().Foreground(warningColor),
		failure: lipgloss.NewStyle().Bold(true).Foreground(errorColor),
		muted:   lipgloss.NewStyle().Foreground(mutedColor),
		key:     lipgloss.NewStyle().Bold(true),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
