package ui

import (
	"bytes"
	"fmt"
	"strings"

	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/stackvity/fixnss/pkg/converter"
)

// RenderDiff returns a line diff between the original and converted content
// of a file. Each changed line is prefixed with "+" or "-" and its line
// number in the converted (or original) file; the unchanged line directly
// before a change is shown faint for context.
func (p *Printer) RenderDiff(info converter.FileInfo) string {
	var sb strings.Builder
	sb.WriteString(p.styles.header.Render(fmt.Sprintf("--- %s", info.Path)))
	sb.WriteString("\n")
	sb.WriteString(p.styles.header.Render(fmt.Sprintf("+++ %s", info.OutputPath)))
	sb.WriteString("\n")

	if bytes.Equal(info.Original, info.Converted) {
		sb.WriteString(p.styles.faint.Render("  no changes"))
		sb.WriteString("\n")
		return sb.String()
	}

	d := dmp.New()
	a, b, lineArray := d.DiffLinesToChars(string(info.Original), string(info.Converted))
	diffs := d.DiffCharsToLines(d.DiffMain(a, b, false), lineArray)

	var (
		oldLine, newLine int
		context          string
		contextNo        int
		contextShown     = true
	)
	for _, df := range diffs {
		lines := splitLines(df.Text)
		switch df.Type {
		case dmp.DiffEqual:
			oldLine += len(lines)
			newLine += len(lines)
			if len(lines) > 0 {
				context = lines[len(lines)-1]
				contextNo = newLine
				contextShown = false
			}
		case dmp.DiffInsert:
			if !contextShown {
				sb.WriteString(p.styles.faint.Render(fmt.Sprintf("  %4d  %s", contextNo, context)))
				sb.WriteString("\n")
				contextShown = true
			}
			for _, l := range lines {
				newLine++
				sb.WriteString(p.styles.added.Render(fmt.Sprintf("+ %4d  %s", newLine, l)))
				sb.WriteString("\n")
			}
		case dmp.DiffDelete:
			if !contextShown {
				sb.WriteString(p.styles.faint.Render(fmt.Sprintf("  %4d  %s", contextNo, context)))
				sb.WriteString("\n")
				contextShown = true
			}
			for _, l := range lines {
				oldLine++
				sb.WriteString(p.styles.removed.Render(fmt.Sprintf("- %4d  %s", oldLine, l)))
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// PrintDiff writes RenderDiff to the printer's writer.
func (p *Printer) PrintDiff(info converter.FileInfo) {
	_, _ = fmt.Fprint(p.out, p.RenderDiff(info))
}

// splitLines breaks text into lines without their terminators.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r\n")
	}
	return lines
}
