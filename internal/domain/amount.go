package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var amountPattern = regexp.MustCompile(`^([+-]?[0-9.,]*[0-9][0-9.,]*)(?:e([+-]?[0-9]{1,4}))?$`)

// currencyTokens are stripped before parsing. Longest first.
var currencyTokens = []string{"eur", "€", "$", "£"}

// ParseAmount converts a raw granted amount into a non-negative decimal.
//
// Numbers are used as-is. Strings are parsed with European formatting in
// mind ("1.804.000,00", "1 200,50 €"). Anything that cannot be parsed,
// NaN, infinities and negative values all yield zero.
func ParseAmount(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return nonNegative(x)
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return nonNegative(*x)
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return nonNegative(decimal.NewFromInt(int64(x)))
	case int8:
		return nonNegative(decimal.NewFromInt(int64(x)))
	case int16:
		return nonNegative(decimal.NewFromInt(int64(x)))
	case int32:
		return nonNegative(decimal.NewFromInt(int64(x)))
	case int64:
		return nonNegative(decimal.NewFromInt(x))
	case uint:
		return ParseAmountString(strconv.FormatUint(uint64(x), 10))
	case uint8:
		return decimal.NewFromInt(int64(x))
	case uint16:
		return decimal.NewFromInt(int64(x))
	case uint32:
		return decimal.NewFromInt(int64(x))
	case uint64:
		return ParseAmountString(strconv.FormatUint(x, 10))
	case json.Number:
		if d, err := decimal.NewFromString(string(x)); err == nil {
			return nonNegative(d)
		}
		return ParseAmountString(string(x))
	case string:
		return ParseAmountString(x)
	case []byte:
		return ParseAmountString(string(x))
	default:
		return decimal.Zero
	}
}

// ParseAmountString parses a locale-formatted amount string.
//
// An exponent suffix ("1e6", "1.5E3") scales the mantissa.
//
// Separator rules:
//   - both "." and "," present: the last one is the decimal separator
//   - a single "," or a single "." is the decimal separator
//   - a separator repeated more than once is a thousands separator
func ParseAmountString(s string) decimal.Decimal {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero
	}

	for _, token := range currencyTokens {
		s = strings.ReplaceAll(s, token, "")
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\'' || r == '’' {
			return -1
		}
		return r
	}, s)

	m := amountPattern.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero
	}

	canonical, ok := canonicalNumber(m[1])
	if !ok {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Zero
	}
	if m[2] != "" {
		exp, err := strconv.Atoi(m[2])
		if err != nil {
			return decimal.Zero
		}
		d = d.Shift(int32(exp))
	}
	return nonNegative(d)
}

// canonicalNumber rewrites a validated amount into the "1234.56" form
func canonicalNumber(s string) (string, bool) {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		lastDot := strings.LastIndex(s, ".")
		lastComma := strings.LastIndex(s, ",")
		decimalSep, thousandsSep := ",", "."
		if lastDot > lastComma {
			decimalSep, thousandsSep = ".", ","
		}
		if strings.Count(s, decimalSep) != 1 {
			return "", false
		}
		s = strings.ReplaceAll(s, thousandsSep, "")
		s = strings.Replace(s, decimalSep, ".", 1)
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "+" || s == "-" {
		return "", false
	}
	return s, true
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return nonNegative(decimal.NewFromFloat(f))
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
