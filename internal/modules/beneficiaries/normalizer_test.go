package beneficiaries

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var keyShape = regexp.MustCompile(`^([a-z0-9]+( [a-z0-9]+)*)?$`)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "whitespace only", input: " \t\n ", expected: ""},
		{name: "dot separated", input: "Parking.Brussels", expected: "parking brussels"},
		{name: "already lower", input: "parking brussels", expected: "parking brussels"},
		{name: "legal form dropped", input: "PARKING BRUSSELS ASBL", expected: "parking brussels"},
		{name: "accent stripped", input: "École", expected: "ecole"},
		{name: "french stop words", input: "CPAS de la Ville de Bruxelles", expected: "cpas ville bruxelles"},
		{name: "dutch stop words", input: "OCMW van de Stad Brussel", expected: "ocmw stad brussel"},
		{name: "english stop words", input: "The Friends of the Museum", expected: "friends museum"},
		{name: "all separators", input: "a.b-c/d|e_f", expected: "b c e f"},
		{name: "punctuation removed not split", input: "Saint-Gilles, Commune (1060)", expected: "saint gilles commune 1060"},
		{name: "apostrophe glued", input: "L'Atelier d'Art", expected: "latelier dart"},
		{name: "collapses whitespace", input: "  Zone   de  Police \t Midi ", expected: "zone police midi"},
		{name: "only stop words", input: "de la du", expected: ""},
		{name: "only punctuation", input: "!!! ??? ...", expected: ""},
		{name: "non latin removed", input: "Ωmega Œuvres", expected: "mega uvres"},
		{name: "digits kept", input: "Zone 5339", expected: "zone 5339"},
		{name: "decomposed input", input: "Liège", expected: "liege"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"CPAS de la Ville de Bruxelles",
		"Parking.brussels",
		"PARKING BRUSSELS ASBL",
		"Zone de Police Bruxelles-Capitale/Ixelles",
		"École _ Liège | Namur",
		"  ",
		"Ωmega",
		"a a a de l",
		"Théâtre-National  Wallonie–Bruxelles",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_OutputShape(t *testing.T) {
	inputs := []string{
		"Ville de Bruxelles",
		" Non breaking spaces ",
		"Émile & Cie.",
		"123 / 456",
		"\x00control\x01chars",
	}

	for _, in := range inputs {
		assert.Regexp(t, keyShape, Normalize(in), "input %q", in)
	}
}

func TestNormalize_CaseAndDiacriticInsensitive(t *testing.T) {
	assert.Equal(t, Normalize("parking brussels"), Normalize("Parking.Brussels"))
	assert.Equal(t, Normalize("École"), Normalize("Ecole"))
	assert.Equal(t, Normalize("ÉCOLE"), Normalize("ecole"))
}

func TestTokens(t *testing.T) {
	assert.Nil(t, Tokens(""))
	assert.Nil(t, Tokens("de la"))
	assert.Equal(t, []string{"cpas", "ville", "bruxelles"}, Tokens("CPAS de la Ville de Bruxelles"))
}

func TestStopWords(t *testing.T) {
	words := StopWords()
	assert.NotEmpty(t, words)
	assert.IsIncreasing(t, words)

	for _, w := range words {
		assert.Regexp(t, regexp.MustCompile(`^[a-z]+$`), w, "stop word must be a valid key token")
		assert.True(t, IsStopWord(w))
	}

	assert.True(t, IsStopWord("asbl"))
	assert.False(t, IsStopWord("cpas"))
	assert.False(t, IsStopWord("police"))
	assert.False(t, IsStopWord("zone"))
}

func TestSearchKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "accented", input: "Société", expected: "societe"},
		{name: "hyphenated", input: "police-midi", expected: "police midi"},
		{name: "stop words dropped", input: "zone de police", expected: "zone police"},
		{name: "only stop words kept", input: "SA", expected: "sa"},
		{name: "upper case and spaces", input: "  CPAS  ", expected: "cpas"},
		{name: "empty", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SearchKey(tt.input))
		})
	}
}
