// Package beneficiaries provides the canonical comparison key for beneficiary names.
package beneficiaries

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separatorReplacer turns literal separators into word boundaries
var separatorReplacer = strings.NewReplacer(
	".", " ",
	"-", " ",
	"/", " ",
	"|", " ",
	"_", " ",
)

// Normalize maps a raw beneficiary name to its NormalizedKey.
//
// Two names denote the same entity under normalization iff their keys are
// equal. The result only contains lowercase ASCII letters, digits and single
// spaces, never starts or ends with a space, and Normalize(Normalize(x)) ==
// Normalize(x). An empty key means the name carries no usable content.
func Normalize(raw string) string {
	return strings.Join(Tokens(raw), " ")
}

// Tokens returns the content tokens of a beneficiary name, in order,
// after stop-word removal.
func Tokens(raw string) []string {
	return contentTokens(fold(raw))
}

// SearchKey folds a search keyword the way names are folded into keys, so
// that "Société" or "police-midi" can be matched against NormalizedKeys.
// Stop words are dropped unless the keyword consists only of stop words
// ("sa"), in which case they are kept rather than folding to "".
func SearchKey(raw string) string {
	fields := fold(raw)
	if tokens := contentTokens(fields); len(tokens) > 0 {
		return strings.Join(tokens, " ")
	}
	return strings.Join(fields, " ")
}

// fold applies case, diacritic, separator and punctuation folding and
// splits on whitespace
func fold(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	s = strings.ToLower(s)
	s = stripDiacritics(s)
	s = separatorReplacer.Replace(s)
	s = strings.Map(keepKeyRune, s)

	return strings.Fields(s)
}

func contentTokens(fields []string) []string {
	var tokens []string
	for _, f := range fields {
		if IsStopWord(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// stripDiacritics decomposes to NFD and drops combining marks ("é" -> "e")
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// keepKeyRune keeps [a-z0-9] and maps every kind of whitespace to a space
func keepKeyRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return r
	case unicode.IsSpace(r):
		return ' '
	default:
		return -1
	}
}
