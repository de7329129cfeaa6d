// Package util holds small path helpers shared by the converter packages.
package util

import (
	"path/filepath"
	"strings"
)

// MatchesPattern reports whether a glob pattern matches a slash-separated
// relative path. An unrooted pattern (no leading "/") also matches any
// trailing run of path segments, so "vendor" matches "a/vendor" and
// "old/*.nss" matches "x/old/y.nss". A rooted pattern matches only from the
// start of rel. Malformed patterns never match.
func MatchesPattern(pattern, rel string) bool {
	pattern = filepath.ToSlash(pattern)
	rel = filepath.ToSlash(rel)
	if pattern == "" || rel == "" || rel == "." {
		return false
	}

	if rooted := strings.HasPrefix(pattern, "/"); rooted {
		match, _ := filepath.Match(strings.TrimPrefix(pattern, "/"), rel)
		return match
	}

	parts := strings.Split(rel, "/")
	for i := range parts {
		if match, _ := filepath.Match(pattern, strings.Join(parts[i:], "/")); match {
			return true
		}
	}
	return false
}
