// Package textfold provides the case-insensitive comparison used by search
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFC normalization
// 3 Case folding
package textfold

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFC, cases.Fold())
	},
}

// Fold returns the folded form of s. Accents are kept so "força" and
// "forca" stay distinct
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	if isLowerASCII(s) {
		return s
	}

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Term prepares a user search term: trimmed then folded
func Term(s string) string { return Fold(strings.TrimSpace(s)) }

// Contains reports whether haystack contains a term already prepared by Term
func Contains(haystack, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(Fold(haystack), term)
}

// Equal compares two strings case-insensitively
func Equal(a, b string) bool { return Fold(a) == Fold(b) }

func isLowerASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 || (c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
