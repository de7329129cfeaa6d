package converter

// Status defines the possible processing states of a file during a batch run.
type Status string

// Constants representing the defined file processing statuses.
const (
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
)

// OnErrorMode defines the behavior when a file fails to convert during a batch run.
type OnErrorMode string

const (
	OnErrorContinue OnErrorMode = "continue"
	OnErrorStop     OnErrorMode = "stop"
)

// EncodingMode defines how source bytes are interpreted before flag matching.
type EncodingMode string

// Constants representing the defined encoding modes.
const (
	// EncodingRaw passes bytes through verbatim; flags are matched on raw bytes.
	EncodingRaw EncodingMode = "raw"
	// EncodingStrict requires valid, non-binary UTF-8 input.
	EncodingStrict EncodingMode = "strict"
	// EncodingAuto detects the charset, converts in UTF-8 and re-encodes on write.
	EncodingAuto EncodingMode = "auto"
)

// OutputFormat defines the format for the final summary report printed by the CLI.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)
