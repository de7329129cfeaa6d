package converter

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/stackvity/fixnss/pkg/util"
)

// Walker expands command-line arguments into the ordered list of files a
// batch run converts.
type Walker struct {
	opts   *Options
	logger *slog.Logger
}

// NewWalker creates a Walker. Ignore patterns are validated up front so a bad
// glob fails the run before any file is touched.
func NewWalker(opts *Options, loggerHandler slog.Handler) (*Walker, error) {
	if err := ValidateIgnorePatterns(opts.IgnorePatterns); err != nil {
		return nil, err
	}
	if loggerHandler == nil {
		loggerHandler = DefaultOptions().Logger
	}
	return &Walker{
		opts:   opts,
		logger: slog.New(loggerHandler).With(slog.String("component", "walker")),
	}, nil
}

// ValidateIgnorePatterns reports the first malformed glob, wrapped in ErrConfigValidation.
func ValidateIgnorePatterns(patterns []string) error {
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("%w: invalid ignore pattern '%s': %w", ErrConfigValidation, p, err)
		}
	}
	return nil
}

// Expand returns the files to convert, in argument order. Without Recursive
// every argument is passed through untouched, so a directory argument later
// fails with ErrNotFound. With Recursive, a directory expands to the .nss
// files beneath it in lexical order; generated *.new.nss files and ignored
// paths are reported as skipped.
func (w *Walker) Expand(args []string) ([]string, []SkippedInfo) {
	if !w.opts.Recursive {
		return append([]string(nil), args...), nil
	}

	var (
		files   []string
		skipped []SkippedInfo
	)
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil || !st.IsDir() {
			files = append(files, arg)
			continue
		}
		found, skips := w.walkDir(arg)
		files = append(files, found...)
		skipped = append(skipped, skips...)
	}
	return files, skipped
}

func (w *Walker) walkDir(root string) ([]string, []SkippedInfo) {
	var (
		files   []string
		skipped []SkippedInfo
	)
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("Skipping unreadable path", slog.String("path", path), slog.String("error", err.Error()))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if pattern := matchIgnore(w.opts.IgnorePatterns, rel); pattern != "" {
			w.logger.Debug("Ignoring path", slog.String("path", path), slog.String("pattern", pattern))
			if d.IsDir() {
				return fs.SkipDir
			}
			if isSourceName(d.Name()) {
				skipped = append(skipped, SkippedInfo{Path: path, Reason: SkipReasonIgnored, Details: "Matched pattern: " + pattern})
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		switch {
		case strings.HasSuffix(d.Name(), ConvertedSuffix):
			skipped = append(skipped, SkippedInfo{Path: path, Reason: SkipReasonGenerated, Details: "Output of a previous conversion"})
		case isSourceName(d.Name()):
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, fs.SkipDir) {
		// Leave the root in the list; ProcessFile reports it with a proper error.
		w.logger.Warn("Directory walk failed", slog.String("path", root), slog.String("error", walkErr.Error()))
		return append(files, root), skipped
	}
	return files, skipped
}

// isSourceName reports whether a file name looks like a legacy source file.
func isSourceName(name string) bool {
	return strings.HasSuffix(name, SourceSuffix)
}

// matchIgnore returns the first pattern matching the slash-separated
// relative path, or "" when none does.
func matchIgnore(patterns []string, rel string) string {
	for _, p := range patterns {
		if util.MatchesPattern(p, rel) {
			return p
		}
	}
	return ""
}
