package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// Engine runs a batch of conversions sequentially, one file at a time.
type Engine struct {
	opts      *Options
	logger    *slog.Logger
	walker    *Walker
	processor *FileProcessor
}

// NewEngine validates opts and wires the walker and processor.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	if err := ValidateOptions(&opts); err != nil {
		return nil, err
	}

	walker, err := NewWalker(&opts, opts.Logger)
	if err != nil {
		return nil, err
	}
	return &Engine{
		opts:      &opts,
		logger:    slog.New(opts.Logger).With(slog.String("component", "engine")),
		walker:    walker,
		processor: NewFileProcessor(&opts, opts.Logger, opts.EncodingHandler),
	}, nil
}

// ValidateOptions checks enum fields, filling empty ones with their defaults.
// Errors wrap ErrConfigValidation.
func ValidateOptions(opts *Options) error {
	if opts.OnErrorMode == "" {
		opts.OnErrorMode = DefaultOnErrorMode
	}
	if opts.EncodingMode == "" {
		opts.EncodingMode = DefaultEncodingMode
	}
	if opts.OutputFormat == "" {
		opts.OutputFormat = DefaultOutputFormat
	}
	if !slices.Contains([]OnErrorMode{OnErrorContinue, OnErrorStop}, opts.OnErrorMode) {
		return fmt.Errorf("%w: invalid on-error mode '%s'", ErrConfigValidation, opts.OnErrorMode)
	}
	if !slices.Contains([]EncodingMode{EncodingRaw, EncodingStrict, EncodingAuto}, opts.EncodingMode) {
		return fmt.Errorf("%w: invalid encoding mode '%s'", ErrConfigValidation, opts.EncodingMode)
	}
	if !slices.Contains([]OutputFormat{OutputFormatText, OutputFormatJSON}, opts.OutputFormat) {
		return fmt.Errorf("%w: invalid output format '%s'", ErrConfigValidation, opts.OutputFormat)
	}
	return nil
}

// ConvertFiles is the main entry point for batch conversion. Each path gets
// a fresh ConversionState. With OnErrorContinue a failing file is recorded
// in the report and the batch goes on; with OnErrorStop the batch ends at
// the first failure and that error is returned. Cancelling ctx stops the
// batch before the next file.
func ConvertFiles(ctx context.Context, paths []string, opts Options) (Report, error) {
	engine, err := NewEngine(opts)
	if err != nil {
		return Report{}, err
	}
	return engine.Run(ctx, paths)
}

// Run converts paths in order and returns the aggregated report. Each call
// reports only its own files, so an Engine can be reused.
func (e *Engine) Run(ctx context.Context, paths []string) (Report, error) {
	startTime := time.Now()
	agg := newReportAggregator()
	var finalErr error

	files, skipped := e.walker.Expand(paths)
	e.logger.Debug("Starting conversion run", slog.Int("files", len(files)), slog.Int("skipped", len(skipped)))

	for _, s := range skipped {
		agg.addSkipped(s)
		e.notifyStatus(s.Path, StatusSkipped, s.Reason, 0)
	}
	for _, f := range files {
		if hookErr := e.opts.EventHooks.OnFileDiscovered(f); hookErr != nil {
			e.logger.Warn("OnFileDiscovered hook returned an error", slog.String("error", hookErr.Error()))
		}
	}

	for _, path := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			e.logger.Info("Conversion run cancelled", slog.String("reason", ctxErr.Error()))
			agg.fatal = true
			finalErr = ctxErr
			break
		}

		e.notifyStatus(path, StatusProcessing, "", 0)
		info, err := e.processor.ProcessFile(ctx, path)
		duration := time.Duration(info.DurationMs) * time.Millisecond

		if err != nil {
			isFatal := e.opts.OnErrorMode == OnErrorStop || errors.Is(err, context.Canceled)
			agg.addError(ErrorInfo{Path: path, Error: err.Error(), IsFatal: isFatal})
			e.notifyStatus(path, StatusFailed, err.Error(), duration)
			if isFatal {
				agg.fatal = true
				finalErr = fmt.Errorf("processing stopped due to fatal error: %w", err)
				break
			}
			continue
		}

		agg.addProcessed(info)
		e.notifyStatus(path, StatusSuccess, fmt.Sprintf("%d insertion(s) -> %s", info.Insertions, info.OutputPath), duration)
	}

	report := agg.getReport(e.opts, startTime, len(files)+len(skipped))
	e.logger.Debug("Conversion run finished",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("processed", report.Summary.ProcessedCount),
		slog.Int("skipped", report.Summary.SkippedCount),
		slog.Int("errors", report.Summary.ErrorCount),
		slog.Int("insertions", report.Summary.InsertionCount),
	)
	if hookErr := e.opts.EventHooks.OnRunComplete(report); hookErr != nil {
		e.logger.Warn("OnRunComplete hook returned an error", slog.String("error", hookErr.Error()))
	}
	return report, finalErr
}

func (e *Engine) notifyStatus(path string, status Status, message string, duration time.Duration) {
	if hookErr := e.opts.EventHooks.OnFileStatusUpdate(path, status, message, duration); hookErr != nil {
		e.logger.Warn("OnFileStatusUpdate hook returned an error", slog.String("path", path), slog.String("error", hookErr.Error()))
	}
}

// --- Report Aggregator ---

// reportAggregator collects per-file results. Runs are sequential, so it
// needs no locking.
type reportAggregator struct {
	processedFiles []FileInfo
	skippedFiles   []SkippedInfo
	errors         []ErrorInfo
	insertions     int
	fatal          bool
}

func newReportAggregator() *reportAggregator {
	return &reportAggregator{
		processedFiles: make([]FileInfo, 0, 16),
		skippedFiles:   make([]SkippedInfo, 0),
		errors:         make([]ErrorInfo, 0),
	}
}

func (a *reportAggregator) addProcessed(info FileInfo) {
	a.processedFiles = append(a.processedFiles, info)
	a.insertions += info.Insertions
}

func (a *reportAggregator) addSkipped(info SkippedInfo) {
	a.skippedFiles = append(a.skippedFiles, info)
}

func (a *reportAggregator) addError(info ErrorInfo) {
	a.errors = append(a.errors, info)
}

// getReport compiles the final Report. Slices are copied so the report does
// not share backing arrays with the aggregator.
func (a *reportAggregator) getReport(opts *Options, startTime time.Time, total int) Report {
	return Report{
		Summary: ReportSummary{
			AppVersion:         opts.AppVersion,
			ProfileUsed:        opts.ProfileName,
			ConfigFilePath:     opts.ConfigFilePath,
			TotalFiles:         total,
			ProcessedCount:     len(a.processedFiles),
			SkippedCount:       len(a.skippedFiles),
			ErrorCount:         len(a.errors),
			InsertionCount:     a.insertions,
			FatalErrorOccurred: a.fatal,
			DryRun:             opts.DryRun,
			Overwrite:          opts.Overwrite,
			EncodingMode:       opts.EncodingMode,
			DurationSeconds:    time.Since(startTime).Seconds(),
			Timestamp:          time.Now().UTC(),
			SchemaVersion:      ReportSchemaVersion,
		},
		ProcessedFiles: slices.Clone(a.processedFiles),
		SkippedFiles:   slices.Clone(a.skippedFiles),
		Errors:         slices.Clone(a.errors),
	}
}
