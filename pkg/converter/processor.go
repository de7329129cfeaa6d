package converter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/creachadair/atomicfile"
	"github.com/stackvity/fixnss/pkg/converter/encoding"
)

// FileProcessor converts one file at a time according to its Options.
// It holds no per-file state; each ProcessFile call starts a fresh latch.
type FileProcessor struct {
	opts            *Options
	logger          *slog.Logger
	encodingHandler encoding.EncodingHandler
}

// NewFileProcessor creates a new FileProcessor. A nil encHandler selects the
// charset-based default configured with opts.DefaultEncoding.
func NewFileProcessor(opts *Options, loggerHandler slog.Handler, encHandler encoding.EncodingHandler) *FileProcessor {
	if loggerHandler == nil {
		loggerHandler = DefaultOptions().Logger
	}
	if encHandler == nil {
		encHandler = encoding.NewGoCharsetEncodingHandler(opts.DefaultEncoding)
	}
	return &FileProcessor{
		opts:            opts,
		logger:          slog.New(loggerHandler).With(slog.String("component", "processor")),
		encodingHandler: encHandler,
	}
}

// OutputPath returns where the converted content of path is written.
// With overwrite the source path itself is returned; otherwise the first
// ".nss" in the file name becomes ".new.nss". Directory components are
// never rewritten. A file name without ".nss" yields ErrNoNSSSuffix.
func OutputPath(path string, overwrite bool) (string, error) {
	if overwrite {
		return path, nil
	}
	dir, name := filepath.Split(path)
	if !strings.Contains(name, SourceSuffix) {
		return "", fmt.Errorf("%w: cannot derive output path for '%s'", ErrNoNSSSuffix, path)
	}
	return dir + strings.Replace(name, SourceSuffix, ConvertedSuffix, 1), nil
}

// ProcessFile converts the file at path and writes the result to its
// destination (unless DryRun is set). The returned FileInfo is populated as
// far as processing got, even on error.
func (p *FileProcessor) ProcessFile(ctx context.Context, path string) (info FileInfo, err error) {
	startTime := time.Now()
	info = FileInfo{Path: path, DryRun: p.opts.DryRun}
	logArgs := []any{slog.String("path", path)}

	defer func() {
		info.DurationMs = time.Since(startTime).Milliseconds()
	}()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return info, ctxErr
	}

	// 1. Stat and open the source
	stat, err := os.Stat(path)
	if err != nil {
		return info, fmt.Errorf("%w: '%s': %w", ErrNotFound, path, err)
	}
	if stat.IsDir() {
		return info, fmt.Errorf("%w: '%s' is a directory", ErrNotFound, path)
	}
	info.SizeBytes = stat.Size()

	// 2. Resolve destination before doing any work
	outPath, err := OutputPath(path, p.opts.Overwrite)
	if err != nil {
		return info, err
	}
	info.OutputPath = outPath

	source, err := readSource(path)
	if err != nil {
		return info, err
	}

	// 3. Decode, transform, re-encode
	text, encName, err := p.decode(source)
	if err != nil {
		return info, fmt.Errorf("%w: '%s': %w", ErrEncoding, path, err)
	}
	info.Encoding = encName

	converted, res, err := TransformBytes(text)
	if err != nil {
		return info, fmt.Errorf("'%s': %w", path, err)
	}
	info.LinesRead = res.Lines
	info.Insertions = res.Insertions
	if res.Dangling {
		p.logger.Debug("Queue flag on the last line, no Off inserted", logArgs...)
	}

	output, err := p.encode(converted, encName)
	if err != nil {
		return info, fmt.Errorf("%w: '%s': %w", ErrEncoding, path, err)
	}
	if p.opts.CaptureContent {
		info.Original = source
		info.Converted = output
	}

	p.logger.Debug("Converted in memory", append(logArgs,
		slog.Int("lines", res.Lines),
		slog.Int("insertions", res.Insertions),
		slog.String("encoding", encName))...)

	// 4. Flush to disk
	if p.opts.DryRun {
		p.logger.Debug("Dry run, skipping write", append(logArgs, slog.String("outputPath", outPath))...)
		return info, nil
	}
	if err = writeAtomic(outPath, output, stat.Mode().Perm()); err != nil {
		return info, err
	}
	p.logger.Debug("Wrote output file", append(logArgs, slog.String("outputPath", outPath))...)
	return info, nil
}

// decode turns raw source bytes into the text the latch runs over,
// according to the configured EncodingMode.
func (p *FileProcessor) decode(source []byte) ([]byte, string, error) {
	switch p.opts.EncodingMode {
	case EncodingStrict:
		if p.encodingHandler.IsBinary(source) {
			return nil, "", fmt.Errorf("content looks binary")
		}
		if !utf8.Valid(source) {
			return nil, "", fmt.Errorf("content is not valid UTF-8")
		}
		return source, "utf-8", nil
	case EncodingAuto:
		if p.encodingHandler.IsBinary(source) {
			return nil, "", fmt.Errorf("content looks binary")
		}
		text, name, certain, err := p.encodingHandler.DetectAndDecode(source)
		if err != nil {
			return nil, name, err
		}
		if !certain {
			p.logger.Debug("Encoding detection uncertain", slog.String("encoding", name))
		}
		// Decoders replace invalid input with U+FFFD instead of failing, so
		// the source must survive the round trip unchanged.
		back, err := p.encodingHandler.Encode(text, name)
		if err != nil {
			return nil, name, fmt.Errorf("content does not round-trip through '%s': %w", name, err)
		}
		if !bytes.Equal(back, source) {
			return nil, name, fmt.Errorf("content does not round-trip through '%s'", name)
		}
		return text, name, nil
	default:
		return source, "", nil
	}
}

// encode reverses decode for the "auto" mode; other modes keep bytes as they are.
func (p *FileProcessor) encode(text []byte, encName string) ([]byte, error) {
	if p.opts.EncodingMode != EncodingAuto {
		return text, nil
	}
	return p.encodingHandler.Encode(text, encName)
}

// readSource reads the whole source file, releasing the handle on every path.
func readSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %w", ErrNotFound, path, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %w", ErrReadFailed, path, err)
	}
	return content, nil
}

// writeAtomic replaces path with content. The data goes to a temporary file
// in the same directory which is renamed into place only after a clean close.
func writeAtomic(path string, content []byte, perm fs.FileMode) error {
	out, err := atomicfile.New(path, perm)
	if err != nil {
		return fmt.Errorf("%w: '%s': %w", ErrWriteFailed, path, err)
	}
	defer out.Cancel()

	if _, err := out.Write(content); err != nil {
		return fmt.Errorf("%w: '%s': %w", ErrWriteFailed, path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: '%s': %w", ErrWriteFailed, path, err)
	}
	return nil
}
