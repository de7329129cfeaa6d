package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/stackvity/fixnss/internal/cli/hooks"
	"github.com/stackvity/fixnss/internal/cli/ui"
	"github.com/stackvity/fixnss/pkg/converter"
)

// ErrConversionFailed is returned by Run when at least one file could not be
// converted. The CLI maps it to a non-zero exit status.
var ErrConversionFailed = errors.New("one or more files failed to convert")

// isTerminal reports whether w is an interactive terminal. Tests replace it.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run converts the files named by args using validated options. Per-file
// progress ("Converting <file>") goes to stdout in text mode; in JSON mode
// stdout carries only the report and progress lines move to stderr.
func Run(ctx context.Context, args []string, opts converter.Options, logger *slog.Logger, stdout, stderr io.Writer) error {
	progressOut := stdout
	if opts.OutputFormat == converter.OutputFormatJSON {
		progressOut = stderr
	}

	var bar hooks.ProgressBar
	if opts.ProgressEnabled && !opts.Verbose && isTerminal(stderr) {
		total := len(args)
		if opts.Recursive {
			total = -1
		}
		bar = hooks.NewTerminalProgressBar(stderr, total)
	}
	opts.EventHooks = hooks.NewCLIHooks(logger, progressOut, opts.Verbose, bar)

	report, runErr := converter.ConvertFiles(ctx, args, opts)
	if runErr != nil && errors.Is(runErr, converter.ErrConfigValidation) {
		return runErr
	}

	switch opts.OutputFormat {
	case converter.OutputFormatJSON:
		if err := writeJSONReport(stdout, report); err != nil {
			return err
		}
	default:
		printer := ui.NewPrinter(stdout)
		if opts.ShowDiff {
			for _, info := range report.ProcessedFiles {
				printer.PrintDiff(info)
			}
		}
		// A clean run prints only the "Converting" lines.
		if opts.Verbose || opts.DryRun || report.Summary.ErrorCount > 0 || report.Summary.FatalErrorOccurred {
			printer.PrintSummary(report)
		}
	}

	if runErr != nil {
		logger.Error("Conversion run aborted", slog.Any("error", runErr))
		return runErr
	}
	if report.Summary.ErrorCount > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrConversionFailed, report.Summary.ErrorCount, report.Summary.TotalFiles)
	}
	return nil
}

// writeJSONReport emits the report as indented JSON followed by a newline.
func writeJSONReport(w io.Writer, report converter.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
