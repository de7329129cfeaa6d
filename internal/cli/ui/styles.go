package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Colors used across CLI output. Status colors mirror the conversion statuses.
const (
	ColorStatusSuccess = lipgloss.Color("40")  // Green
	ColorStatusFailed  = lipgloss.Color("196") // Red
	ColorStatusSkipped = lipgloss.Color("214") // Orange/Yellow
	ColorHeaderFg      = lipgloss.Color("62")  // Purple
)

// styles groups the lipgloss styles bound to one renderer, so colour support
// follows the writer actually being printed to.
type styles struct {
	header  lipgloss.Style
	success lipgloss.Style
	failed  lipgloss.Style
	skipped lipgloss.Style
	added   lipgloss.Style
	removed lipgloss.Style
	faint   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header:  r.NewStyle().Bold(true).Foreground(ColorHeaderFg),
		success: r.NewStyle().Foreground(ColorStatusSuccess),
		failed:  r.NewStyle().Foreground(ColorStatusFailed),
		skipped: r.NewStyle().Foreground(ColorStatusSkipped),
		added:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"}),
		removed: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}),
		faint:   r.NewStyle().Faint(true),
	}
}

// Printer renders human-oriented output (diffs, run summary) to a writer.
type Printer struct {
	out    io.Writer
	styles styles
}

// NewPrinter creates a Printer; colours are enabled only when out is a terminal.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, styles: newStyles(out)}
}
