// Package domain provides core domain models and types.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SubsidyRecord represents a single subsidy line as published in open data
// or extracted from a scraped PDF. Records are produced upstream and are
// treated as read-only by the grouping and reporting layers.
type SubsidyRecord struct {
	BeneficiaryName string          `json:"beneficiary_name" msgpack:"beneficiary_name"`
	RegistrationID  string          `json:"registration_id" msgpack:"registration_id"` // e.g. BCE/KBO number, may be empty
	GrantedAmount   decimal.Decimal `json:"granted_amount" msgpack:"granted_amount"`   // Always >= 0
	ArticleCode     string          `json:"article_code,omitempty" msgpack:"article_code,omitempty"`
	YearRange       string          `json:"year_range,omitempty" msgpack:"year_range,omitempty"`
	Object          string          `json:"object,omitempty" msgpack:"object,omitempty"`
	Year            int             `json:"year,omitempty" msgpack:"year,omitempty"`
	Source          string          `json:"source,omitempty" msgpack:"source,omitempty"` // File the record was loaded from
}

// HasRegistrationID reports whether the record carries a usable registration id
func (r SubsidyRecord) HasRegistrationID() bool {
	return strings.TrimSpace(r.RegistrationID) != ""
}
