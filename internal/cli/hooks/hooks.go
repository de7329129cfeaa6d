package hooks

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/stackvity/fixnss/pkg/converter"
)

// CLIHooks implements the converter.Hooks interface, bridging library events
// to the terminal: the "Converting <file>" line on stdout, log records on
// stderr and an optional progress bar.
type CLIHooks struct {
	logger         *slog.Logger
	out            io.Writer
	verboseEnabled bool
	progressBar    ProgressBar
}

// ProgressBar defines the interface needed to interact with the progress bar.
type ProgressBar interface {
	Add(num int) error
	Describe(description string) error
	Close() error
}

// NoOpProgressBar provides a default null implementation.
type NoOpProgressBar struct{}

// Add implements ProgressBar.
func (n *NoOpProgressBar) Add(num int) error { return nil }

// Describe implements ProgressBar.
func (n *NoOpProgressBar) Describe(description string) error { return nil }

// Close implements ProgressBar.
func (n *NoOpProgressBar) Close() error { return nil }

// terminalProgressBar adapts schollz/progressbar to ProgressBar.
type terminalProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewTerminalProgressBar renders a bar for total files on w.
func NewTerminalProgressBar(w io.Writer, total int) ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &terminalProgressBar{bar: bar}
}

// Add implements ProgressBar.
func (p *terminalProgressBar) Add(num int) error { return p.bar.Add(num) }

// Describe implements ProgressBar.
func (p *terminalProgressBar) Describe(description string) error {
	p.bar.Describe(description)
	return nil
}

// Close implements ProgressBar.
func (p *terminalProgressBar) Close() error { return p.bar.Close() }

// NewCLIHooks creates a new CLIHooks instance writing progress lines to out.
// Pass nil for progBar if not applicable; a NoOp version will be used.
func NewCLIHooks(logger *slog.Logger, out io.Writer, verboseEnabled bool, progBar ProgressBar) converter.Hooks {
	if progBar == nil {
		progBar = &NoOpProgressBar{}
	}
	return &CLIHooks{
		logger:         logger,
		out:            out,
		verboseEnabled: verboseEnabled,
		progressBar:    progBar,
	}
}

// OnFileDiscovered handles the event when a file is queued for conversion.
func (h *CLIHooks) OnFileDiscovered(path string) error {
	if h.verboseEnabled {
		h.logger.Debug("File queued", "path", path)
	}
	return nil
}

// OnFileStatusUpdate handles events when a file's processing status changes.
func (h *CLIHooks) OnFileStatusUpdate(path string, status converter.Status, message string, duration time.Duration) error {
	switch status {
	case converter.StatusProcessing:
		_, _ = fmt.Fprintf(h.out, "Converting %s\n", path)
		_ = h.progressBar.Describe(path)
		return nil
	case converter.StatusFailed:
		h.logger.Error("File conversion failed", "path", path, "error", message)
	case converter.StatusSkipped:
		h.logger.Info("File skipped", "path", path, "reason", message)
	case converter.StatusSuccess:
		if h.verboseEnabled {
			attrs := []any{slog.String("path", path), slog.String("message", message)}
			if duration > 0 {
				attrs = append(attrs, slog.Duration("duration", duration))
			}
			h.logger.Info("File converted", attrs...)
		}
	}

	if status == converter.StatusSuccess || status == converter.StatusFailed {
		_ = h.progressBar.Add(1)
	}
	return nil
}

// OnRunComplete finalizes the progress bar. The summary itself is printed by
// the CLI after ConvertFiles returns.
func (h *CLIHooks) OnRunComplete(report converter.Report) error {
	_ = h.progressBar.Close()
	return nil
}
