// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug builds the readable part of public portfolio URLs.
package slug

import (
	"strings"
	"unicode"
)

// MaxLength caps a generated slug. Longer slugs are cut at the last
// hyphen that fits.
const MaxLength = 60

// folds maps common accented Latin letters to ASCII.
var folds = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a", 'ă': "a",
	'æ': "ae", 'ç': "c", 'č': "c", 'ć': "c",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ñ': "n", 'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o",
	'ș': "s", 'ş': "s", 'š': "s", 'ß': "ss", 'ț': "t", 'ţ': "t",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u", 'ý': "y", 'ÿ': "y", 'ž': "z",
}

// Generate turns a portfolio title or owner name into a lowercase ASCII
// slug. Letters and digits are kept, apostrophes and dots vanish, and any
// other run of characters becomes one hyphen.
// Example: "Ada's Café, 2.0" → "adas-cafe-20"
func Generate(s string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(s) {
		var chunk string
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			chunk = string(r)
		case folds[r] != "":
			chunk = folds[r]
		case r == '\'' || r == '’' || r == '.':
			continue
		default:
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('-')
		}
		sep = false
		b.WriteString(chunk)
	}
	return truncate(b.String(), MaxLength)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	if i := strings.LastIndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	return s
}
