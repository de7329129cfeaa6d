package converter

import (
	"io"
	"log/slog"
	"time"

	"github.com/stackvity/fixnss/pkg/converter/encoding"
)

// Hooks defines callbacks for status updates during a batch run.
// Calls are made from the goroutine running ConvertFiles, one file at a time.
type Hooks interface {
	OnFileDiscovered(path string) error
	OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error
	OnRunComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnFileDiscovered implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileDiscovered(path string) error { return nil }

// OnFileStatusUpdate implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error {
	return nil
}

// OnRunComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// Options holds all configuration for a conversion run.
type Options struct {
	// --- Application Info ---
	AppVersion     string `mapstructure:"-"` // Populated by caller, reported in the JSON report
	ConfigFilePath string `mapstructure:"-"` // Path to the loaded config file (for reporting)
	ProfileName    string `mapstructure:"-"` // Name of the profile used (for reporting)

	// --- Conversion Behavior ---
	Overwrite       bool         `mapstructure:"overwrite"`       // Write back to the source path instead of *.new.nss
	OnErrorMode     OnErrorMode  `mapstructure:"onError"`         // ("continue", "stop")
	EncodingMode    EncodingMode `mapstructure:"encoding"`        // ("raw", "strict", "auto")
	DefaultEncoding string       `mapstructure:"defaultEncoding"` // Fallback charset for "auto" when detection is uncertain
	DryRun          bool         `mapstructure:"dryRun"`          // Convert in memory only

	// --- Input Expansion ---
	Recursive      bool     `mapstructure:"recursive"` // Expand directory arguments into their .nss files
	IgnorePatterns []string `mapstructure:"ignore"`    // Glob patterns excluded during expansion

	// --- Output & Presentation (CLI hints) ---
	ShowDiff        bool         `mapstructure:"diff"`         // Render a before/after diff per file
	OutputFormat    OutputFormat `mapstructure:"outputFormat"` // ("text", "json") for final report
	ProgressEnabled bool         `mapstructure:"progress"`     // Show a progress bar on a TTY
	Verbose         bool         `mapstructure:"verbose"`      // Enable debug logging
	CaptureContent  bool         `mapstructure:"-"`            // Keep before/after bytes in FileInfo (set when ShowDiff)

	// --- Injected Dependencies ---
	EventHooks      Hooks                    `mapstructure:"-"` // Optional: defaults to NoOpHooks
	Logger          slog.Handler             `mapstructure:"-"` // Required by ConvertFiles
	EncodingHandler encoding.EncodingHandler `mapstructure:"-"` // Optional: defaults to the charset-based handler
}

// DefaultOptions returns Options populated with package defaults and a
// logger that discards everything.
func DefaultOptions() Options {
	return Options{
		Overwrite:    DefaultOverwrite,
		OnErrorMode:  DefaultOnErrorMode,
		EncodingMode: DefaultEncodingMode,
		OutputFormat: DefaultOutputFormat,
		EventHooks:   &NoOpHooks{},
		Logger:       slog.NewTextHandler(io.Discard, nil),
	}
}
