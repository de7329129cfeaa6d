package ui

import (
	"fmt"
	"strings"

	"github.com/stackvity/fixnss/pkg/converter"
)

// RenderSummary formats the end-of-run summary shown in text output mode.
func (p *Printer) RenderSummary(report converter.Report) string {
	s := report.Summary
	var sb strings.Builder

	line := fmt.Sprintf("Converted %d of %d file(s), inserted %d Off line(s)",
		s.ProcessedCount, s.TotalFiles, s.InsertionCount)
	if s.ErrorCount > 0 {
		sb.WriteString(p.styles.failed.Render(line))
	} else {
		sb.WriteString(p.styles.success.Render(line))
	}
	sb.WriteString("\n")

	if s.DryRun {
		sb.WriteString(p.styles.faint.Render("Dry run: no files were written"))
		sb.WriteString("\n")
	}
	if s.SkippedCount > 0 {
		sb.WriteString(p.styles.skipped.Render(fmt.Sprintf("Skipped %d file(s)", s.SkippedCount)))
		sb.WriteString("\n")
	}
	if s.ErrorCount > 0 {
		sb.WriteString(p.styles.failed.Render(fmt.Sprintf("%d file(s) failed:", s.ErrorCount)))
		sb.WriteString("\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&sb, "  %s: %s\n", e.Path, e.Error)
		}
	}
	if s.FatalErrorOccurred {
		sb.WriteString(p.styles.failed.Render("Run stopped early"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// PrintSummary writes RenderSummary to the printer's writer.
func (p *Printer) PrintSummary(report converter.Report) {
	_, _ = fmt.Fprint(p.out, p.RenderSummary(report))
}
