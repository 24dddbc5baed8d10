package datasets

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/subsidywatch/internal/domain"
)

// rawRecord is the on-disk record schema. Every field is optional and may
// arrive with the wrong type; toRecord applies the defaulting rules once so
// that nothing downstream has to probe fields.
type rawRecord struct {
	BeneficiaryName any `json:"beneficiaryName" msgpack:"beneficiaryName"`
	RegistrationID  any `json:"registrationId" msgpack:"registrationId"`
	GrantedAmount   any `json:"grantedAmount" msgpack:"grantedAmount"`
	ArticleCode     any `json:"articleCode" msgpack:"articleCode"`
	YearRange       any `json:"yearRange" msgpack:"yearRange"`
	Object          any `json:"object" msgpack:"object"`
	Year            any `json:"year" msgpack:"year"`
}

var fileYearPattern = regexp.MustCompile(`(?:19|20)\d{2}`)

// yearFromName extracts the data year from a file name ("subsidies-2023.json")
func yearFromName(name string) int {
	matches := fileYearPattern.FindAllString(path.Base(name), -1)
	if len(matches) == 0 {
		return 0
	}
	year, _ := strconv.Atoi(matches[len(matches)-1])
	return year
}

// decodeRecords decodes one file holding an array of records
func decodeRecords(r io.Reader, format string) ([]rawRecord, error) {
	var raws []rawRecord

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&raws); err != nil {
			return nil, fmt.Errorf("failed to decode JSON records: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&raws); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack records: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported record format: %q", format)
	}

	return raws, nil
}

// toRecord validates a raw record into the domain schema.
// Non-string names become "", amounts go through domain.ParseAmount and
// the record year falls back to the file year.
func toRecord(raw rawRecord, fileYear int, source string) domain.SubsidyRecord {
	year := intField(raw.Year)
	if year == 0 {
		year = fileYear
	}

	return domain.SubsidyRecord{
		BeneficiaryName: stringField(raw.BeneficiaryName),
		RegistrationID:  idField(raw.RegistrationID),
		GrantedAmount:   domain.ParseAmount(raw.GrantedAmount),
		ArticleCode:     stringField(raw.ArticleCode),
		YearRange:       stringField(raw.YearRange),
		Object:          stringField(raw.Object),
		Year:            year,
		Source:          source,
	}
}

func stringField(v any) string {
	s, _ := v.(string)
	return s
}

// idField also accepts integer ids, which some publishers emit unquoted
func idField(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return x.String()
		}
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case int8, int16, uint8, uint16:
		return fmt.Sprint(x)
	}
	return ""
}

func intField(v any) int {
	switch x := v.(type) {
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		return n
	case float64:
		return int(x)
	case int:
		return x
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return int(x)
	case uint64:
		return int(x)
	}
	return 0
}
