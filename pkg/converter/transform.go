package converter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

var (
	lf      = []byte("\n")
	crlf    = []byte("\r\n")
	utf8BOM = []byte("\xef\xbb\xbf")
	offLine = []byte(OffMarker)
)

// TransformResult summarises a single pass of Transform.
type TransformResult struct {
	Lines      int // Lines read from the source, including a final unterminated one
	Insertions int // Off lines written
	// Dangling is set when the input ended while a flag was still pending,
	// i.e. the flag sat on the last line and no Off could follow it.
	Dangling bool
}

// Transform copies r to w line by line, inserting an Off line wherever the
// ConversionState latch fires. Every source line is written verbatim; the
// inserted line reuses the terminator of the line it follows. When that line
// is the unterminated last line, a "\n" is written first so Off stays on its
// own line.
//
// Read failures wrap ErrReadFailed, write failures wrap ErrWriteFailed.
func Transform(r io.Reader, w io.Writer) (TransformResult, error) {
	var (
		res   TransformResult
		state ConversionState
		br    = bufio.NewReader(r)
		bw    = bufio.NewWriter(w)
	)

	for {
		line, readErr := br.ReadBytes('\n')
		if len(line) > 0 {
			if _, err := bw.Write(line); err != nil {
				return res, fmt.Errorf("%w: %w", ErrWriteFailed, err)
			}
			content, eol := splitTerminator(line)
			if res.Lines == 0 {
				content = bytes.TrimPrefix(content, utf8BOM)
			}
			res.Lines++

			if state.Step(IsQueueFlag(string(content))) {
				if eol == nil {
					eol = lf
					if _, err := bw.Write(eol); err != nil {
						return res, fmt.Errorf("%w: %w", ErrWriteFailed, err)
					}
				}
				if _, err := bw.Write(offLine); err != nil {
					return res, fmt.Errorf("%w: %w", ErrWriteFailed, err)
				}
				if _, err := bw.Write(eol); err != nil {
					return res, fmt.Errorf("%w: %w", ErrWriteFailed, err)
				}
				res.Insertions++
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return res, fmt.Errorf("%w: %w", ErrReadFailed, readErr)
		}
	}

	res.Dangling = state.Armed()
	if err := bw.Flush(); err != nil {
		return res, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return res, nil
}

// TransformBytes is Transform over an in-memory buffer.
func TransformBytes(src []byte) ([]byte, TransformResult, error) {
	var out bytes.Buffer
	out.Grow(len(src) + len(src)/8)
	res, err := Transform(bytes.NewReader(src), &out)
	if err != nil {
		return nil, res, err
	}
	return out.Bytes(), res, nil
}

// splitTerminator separates a line from its "\n" or "\r\n" terminator.
// eol is nil for an unterminated line.
func splitTerminator(line []byte) (content, eol []byte) {
	switch {
	case bytes.HasSuffix(line, crlf):
		return line[:len(line)-2], crlf
	case bytes.HasSuffix(line, lf):
		return line[:len(line)-1], lf
	default:
		return line, nil
	}
}
