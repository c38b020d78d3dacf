// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-friendly identifiers for categories, tags, and
// articles from their display names.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen caps generated slugs. Longer input is cut at the last hyphen
// that fits.
const MaxLen = 120

// Generate lowercases s, strips diacritics ("Café" → "cafe"), drops
// punctuation, and joins the remaining words with single hyphens.
//
//	Generate("Hello, World! 2026") == "hello-world-2026"
func Generate(s string) string {
	folded, _, err := transform.String(foldDiacritics(), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r) || r == '_':
			pendingHyphen = true
		}
	}

	return truncate(b.String(), MaxLen)
}

// WithSuffix appends a numeric suffix, used to retry after a slug collision.
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	suffix := "-" + strconv.Itoa(n)
	return truncate(base, MaxLen-len(suffix)) + suffix
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	if i := strings.LastIndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	return strings.Trim(s, "-")
}

// foldDiacritics decomposes characters and removes combining marks.
// A new transformer is built per call since transform.Transformer is stateful.
func foldDiacritics() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
