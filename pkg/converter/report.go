package converter

import (
	"time"
)

// Report summarizes the result of a single ConvertFiles run.
type Report struct {
	Summary        ReportSummary `json:"summary"`
	ProcessedFiles []FileInfo    `json:"processedFiles"`
	SkippedFiles   []SkippedInfo `json:"skippedFiles"`
	Errors         []ErrorInfo   `json:"errors"`
}

// ReportSummary contains aggregated statistics for a ConvertFiles run.
type ReportSummary struct {
	AppVersion         string       `json:"appVersion,omitempty"`
	ProfileUsed        string       `json:"profileUsed,omitempty"`
	ConfigFilePath     string       `json:"configFilePath,omitempty"`
	TotalFiles         int          `json:"totalFiles"`
	ProcessedCount     int          `json:"processedCount"`
	SkippedCount       int          `json:"skippedCount"`
	ErrorCount         int          `json:"errorCount"`
	InsertionCount     int          `json:"insertionCount"`
	FatalErrorOccurred bool         `json:"fatalError"`
	DryRun             bool         `json:"dryRun"`
	Overwrite          bool         `json:"overwrite"`
	EncodingMode       EncodingMode `json:"encodingMode"`
	DurationSeconds    float64      `json:"durationSeconds"`
	Timestamp          time.Time    `json:"timestamp"`
	SchemaVersion      string       `json:"schemaVersion,omitempty"`
}

// FileInfo details a single file that was converted.
type FileInfo struct {
	Path       string `json:"path"`
	OutputPath string `json:"outputPath"`
	Encoding   string `json:"encoding,omitempty"`
	SizeBytes  int64  `json:"sizeBytes"`
	LinesRead  int    `json:"linesRead"`
	Insertions int    `json:"insertions"`
	DurationMs int64  `json:"durationMs"`
	DryRun     bool   `json:"dryRun,omitempty"`

	// Populated only when Options.CaptureContent is set.
	Original  []byte `json:"-"`
	Converted []byte `json:"-"`
}

// SkippedInfo details a file that was intentionally left out of a run.
type SkippedInfo struct {
	Path    string `json:"path"`
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

// ErrorInfo details an error encountered while converting a specific file.
type ErrorInfo struct {
	Path    string `json:"path"`
	Error   string `json:"error"`
	IsFatal bool   `json:"isFatal"`
}
