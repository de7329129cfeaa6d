package converter

// Constants describing the legacy file format and its migration.
const (
	// OffMarker is the literal line inserted after each queue declaration.
	OffMarker = "Off"
	// SourceSuffix is the substring replaced when deriving an output path.
	SourceSuffix = ".nss"
	// ConvertedSuffix replaces SourceSuffix in derived output paths.
	ConvertedSuffix = ".new.nss"
)

// Constants defining default values for configuration options.
// These are used when setting up Viper defaults in the configuration loading process.
const (
	// DefaultOverwrite keeps sources intact; output goes to *.new.nss.
	DefaultOverwrite = false
	// DefaultOnErrorMode is the default behavior when a file fails to convert.
	DefaultOnErrorMode = OnErrorContinue
	// DefaultEncodingMode is the default interpretation of source bytes.
	DefaultEncodingMode = EncodingRaw
	// DefaultOutputFormat is the default format for the final summary report.
	DefaultOutputFormat = OutputFormatText
	// DefaultDryRun is the default state for dry-run mode.
	DefaultDryRun = false
	// DefaultDiff is the default state for the diff preview.
	DefaultDiff = false
	// DefaultRecursive is the default state for directory expansion.
	DefaultRecursive = false
	// DefaultProgressEnabled is the default state for the progress bar.
	DefaultProgressEnabled = false
	// DefaultVerbose is the default state for verbose logging.
	DefaultVerbose = false
)

// ReportSchemaVersion indicates the version of the JSON report structure.
const ReportSchemaVersion = "1.0"

// Constants defining skip reasons used in the Report.
const (
	SkipReasonIgnored   = "ignored_pattern"
	SkipReasonGenerated = "generated_output"
)
