// Package strings holds small string helpers for module wiring. Import as str
package strings

import std "strings"

// IfEmpty returns def when in has no elements
func IfEmpty[T any](in, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString panics naming what when s is blank
func MustString(s, what string) string {
	if std.TrimSpace(s) == "" {
		panic(what + " is required")
	}
	return s
}

// MustPrefix turns " charts/ " into "/charts" and panics on the bare root
func MustPrefix(s string) string {
	s = "/" + std.Trim(s, " /")
	if s == "/" {
		panic("route prefix is required")
	}
	return s
}
