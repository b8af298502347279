// Package strings holds the few string and slice helpers the wiring code shares
package strings

import (
	"path"
	"slices"
	std "strings"
)

// Or returns in, or def when in is empty
func Or[T any](in, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// List splits a comma separated list, trimming items and dropping blanks and repeats
func List(s string) []string {
	var out []string
	for _, item := range std.Split(s, ",") {
		if item = std.TrimSpace(item); item != "" && !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	return out
}

// MustString panics with "<what> is required" when s is blank
func MustString(s, what string) string {
	if std.TrimSpace(s) == "" {
		panic(what + " is required")
	}
	return s
}

// MustPrefix cleans a mount prefix to one leading slash and no trailing one,
// e.g. " models/ " is /models. Blank and root prefixes panic.
func MustPrefix(s string) string {
	p := path.Clean("/" + std.TrimSpace(s))
	if p == "/" {
		panic("root path is required")
	}
	return p
}
