// Package converter migrates legacy .nss network-simulation files to the
// current format, which expects an "Off" queue-visualisation line after each
// queue declaration.
//
// The transformation is a single pass over the lines of a file. A line equal
// to one of the queue flag names (see QueueFlags) arms a two-step latch; the
// line after it fires the latch, and "Off" is written right after that line.
// Everything else is copied verbatim.
package converter

import (
	"context"
)

// Convert migrates a single file. With overwrite the result replaces the
// source; otherwise it is written next to it with ".nss" in the file name
// replaced by ".new.nss".
//
// Errors wrap ErrNotFound, ErrReadFailed, ErrWriteFailed or ErrNoNSSSuffix.
func Convert(path string, overwrite bool) error {
	opts := DefaultOptions()
	opts.Overwrite = overwrite
	_, err := NewFileProcessor(&opts, opts.Logger, nil).ProcessFile(context.Background(), path)
	return err
}
