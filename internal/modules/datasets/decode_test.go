package datasets

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestYearFromName(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		expected int
	}{
		{"year suffix", "subsidies-2023.json", 2023},
		{"year prefix", "2019_subsidies.msgpack", 2019},
		{"last year wins", "2019-2020_subsidies.json", 2020},
		{"no year", "subsidies.json", 0},
		{"directory year ignored", "2021/subsidies.json", 0},
		{"not a year", "export-3021.json", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, yearFromName(tt.file))
		})
	}
}

func TestDecodeRecords_JSON(t *testing.T) {
	input := `[
		{"beneficiaryName": "CPAS de Bruxelles", "registrationId": "0212345678", "grantedAmount": "1.000,50", "year": 2022},
		{"beneficiaryName": 42, "grantedAmount": 250}
	]`

	raws, err := decodeRecords(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, "CPAS de Bruxelles", raws[0].BeneficiaryName)
	assert.Equal(t, json.Number("2022"), raws[0].Year)
	assert.Equal(t, json.Number("42"), raws[1].BeneficiaryName)
	assert.Nil(t, raws[1].RegistrationID)
}

func TestDecodeRecords_JSONExponentAmount(t *testing.T) {
	input := `[
		{"beneficiaryName": "CPAS Ixelles", "grantedAmount": 1.5e6},
		{"beneficiaryName": "CPAS Uccle", "grantedAmount": 1500000}
	]`

	raws, err := decodeRecords(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)
	require.Len(t, raws, 2)

	for _, raw := range raws {
		r := toRecord(raw, 2023, "subsidies-2023.json")
		assert.Equal(t, "1500000", r.GrantedAmount.String(), r.BeneficiaryName)
	}
}

func TestDecodeRecords_Msgpack(t *testing.T) {
	payload, err := msgpack.Marshal([]map[string]any{
		{"beneficiaryName": "Ville de Namur", "registrationId": "0207", "grantedAmount": 1200.0},
	})
	require.NoError(t, err)

	raws, err := decodeRecords(bytes.NewReader(payload), FormatMsgpack)
	require.NoError(t, err)
	require.Len(t, raws, 1)

	assert.Equal(t, "Ville de Namur", raws[0].BeneficiaryName)
	assert.Equal(t, "0207", raws[0].RegistrationID)
	assert.Equal(t, 1200.0, raws[0].GrantedAmount)
}

func TestDecodeRecords_Errors(t *testing.T) {
	_, err := decodeRecords(strings.NewReader(`{"not": "an array"}`), FormatJSON)
	assert.Error(t, err)

	_, err = decodeRecords(strings.NewReader(`[{"beneficiaryName": `), FormatJSON)
	assert.Error(t, err)

	_, err = decodeRecords(strings.NewReader(`[]`), "csv")
	assert.Error(t, err)
}

func TestToRecord(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		r := toRecord(rawRecord{
			BeneficiaryName: "CPAS de Bruxelles",
			RegistrationID:  "0212345678",
			GrantedAmount:   "1.000,50",
			ArticleCode:     "12345/435-01",
			YearRange:       "2022-2023",
			Object:          "Aide sociale",
			Year:            json.Number("2022"),
		}, 2021, "subsidies-2021.json")

		assert.Equal(t, "CPAS de Bruxelles", r.BeneficiaryName)
		assert.Equal(t, "0212345678", r.RegistrationID)
		assert.Equal(t, "1000.50", r.GrantedAmount.StringFixed(2))
		assert.Equal(t, "12345/435-01", r.ArticleCode)
		assert.Equal(t, "2022-2023", r.YearRange)
		assert.Equal(t, "Aide sociale", r.Object)
		assert.Equal(t, 2022, r.Year)
		assert.Equal(t, "subsidies-2021.json", r.Source)
	})

	t.Run("wrong types fall back to defaults", func(t *testing.T) {
		r := toRecord(rawRecord{
			BeneficiaryName: json.Number("42"),
			RegistrationID:  []any{"x"},
			GrantedAmount:   "n/a",
			Object:          true,
		}, 2021, "subsidies-2021.json")

		assert.Equal(t, "", r.BeneficiaryName)
		assert.Equal(t, "", r.RegistrationID)
		assert.True(t, r.GrantedAmount.IsZero())
		assert.Equal(t, "", r.Object)
		assert.Equal(t, 2021, r.Year)
	})

	t.Run("missing fields", func(t *testing.T) {
		r := toRecord(rawRecord{}, 0, "data.json")

		assert.Equal(t, "", r.BeneficiaryName)
		assert.False(t, r.HasRegistrationID())
		assert.True(t, r.GrantedAmount.IsZero())
		assert.Equal(t, 0, r.Year)
	})
}

func TestIDField(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "0212345678", "0212345678"},
		{"string kept as is", " 0212345678 ", " 0212345678 "},
		{"integer json number", json.Number("212345678"), "212345678"},
		{"fractional json number", json.Number("1.5"), ""},
		{"msgpack int64", int64(212345678), "212345678"},
		{"msgpack uint32", uint32(4242), "4242"},
		{"bool", true, ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, idField(tt.input))
		})
	}
}

func TestIntField(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int
	}{
		{"json number", json.Number("2023"), 2023},
		{"fractional json number", json.Number("2023.5"), 0},
		{"string", " 2021 ", 2021},
		{"bad string", "last year", 0},
		{"float", 2020.0, 2020},
		{"msgpack uint16", uint16(2019), 2019},
		{"msgpack int64", int64(2018), 2018},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, intField(tt.input))
		})
	}
}
