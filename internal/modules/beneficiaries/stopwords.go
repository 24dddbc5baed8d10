package beneficiaries

import "sort"

// stopWords are dropped from normalized keys. The list is fixed: French, Dutch
// and English articles, prepositions and conjunctions, plus the Belgian legal
// form suffixes that publishers add or omit at will ("ASBL", "VZW", "SA").
// Every entry must already be a valid key token (lowercase ASCII, no spaces).
var stopWords = map[string]struct{}{
	// French
	"a": {}, "au": {}, "aux": {}, "d": {}, "de": {}, "des": {}, "du": {},
	"en": {}, "et": {}, "l": {}, "la": {}, "le": {}, "les": {}, "par": {},
	"pour": {}, "sur": {}, "un": {}, "une": {},

	// Dutch
	"den": {}, "der": {}, "het": {}, "in": {}, "op": {}, "t": {}, "te": {},
	"van": {}, "voor": {}, "een": {},

	// English
	"an": {}, "and": {}, "for": {}, "of": {}, "the": {},

	// Legal forms
	"aisbl": {}, "asbl": {}, "bv": {}, "bvba": {}, "cv": {}, "cvba": {},
	"ivzw": {}, "nv": {}, "sa": {}, "sc": {}, "scrl": {}, "sprl": {},
	"srl": {}, "vzw": {},
}

// IsStopWord reports whether token is removed during normalization
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// StopWords returns the stop-word list, sorted
func StopWords() []string {
	words := make([]string, 0, len(stopWords))
	for w := range stopWords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
