package converter

import "errors"

// --- Exported Error Variables ---
// These errors represent the categories of failure a conversion can report.
// Library users can check against them using errors.Is; the returned errors
// always wrap one of these with the offending path and underlying cause.

var (
	// ErrNotFound indicates that the source file does not exist, cannot be opened
	// for reading, or is a directory.
	ErrNotFound = errors.New("source file not found or not readable")

	// ErrReadFailed indicates an I/O failure while reading an already opened source file.
	ErrReadFailed = errors.New("failed to read source file")

	// ErrWriteFailed indicates a failure to create, write or commit the destination file.
	// This might be due to permissions, disk space exhaustion, or other filesystem I/O errors.
	ErrWriteFailed = errors.New("failed to write output file")

	// ErrEncoding indicates that the source content could not be decoded, failed strict
	// UTF-8 validation, looked like binary data, or could not be re-encoded.
	// Only returned when the encoding mode is "strict" or "auto".
	ErrEncoding = errors.New("text encoding error")

	// ErrNoNSSSuffix indicates that an output path cannot be derived because the file
	// name does not contain ".nss" and overwrite mode is off.
	ErrNoNSSSuffix = errors.New("file name does not contain .nss")

	// ErrConfigValidation indicates that the provided Options failed validation.
	// This is typically returned directly as a fatal error by ConvertFiles.
	ErrConfigValidation = errors.New("invalid configuration options provided")
)
