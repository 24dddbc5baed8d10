package grouping

import (
	"strings"

	"github.com/aristath/subsidywatch/internal/domain"
	"github.com/aristath/subsidywatch/internal/modules/beneficiaries"
)

// KeyFunc derives the grouping key of a record. An empty key excludes the record.
type KeyFunc func(domain.SubsidyRecord) string

// NameKey groups by the normalized beneficiary name
func NameKey(r domain.SubsidyRecord) string {
	return beneficiaries.Normalize(r.BeneficiaryName)
}

// RegistrationKey groups by registration id, ignoring surrounding whitespace
func RegistrationKey(r domain.SubsidyRecord) string {
	if !r.HasRegistrationID() {
		return ""
	}
	return strings.TrimSpace(r.RegistrationID)
}

// GroupByNormalizedName groups records by the NormalizedKey of their beneficiary name
func GroupByNormalizedName(records []domain.SubsidyRecord) *Groups {
	return fold(StrategyName, records, NameKey)
}

// GroupByRegistrationID groups records by registration id
func GroupByRegistrationID(records []domain.SubsidyRecord) *Groups {
	return fold(StrategyRegistration, records, RegistrationKey)
}

// GroupBy dispatches to the grouping function of the given strategy
func GroupBy(strategy Strategy, records []domain.SubsidyRecord) *Groups {
	if strategy == StrategyRegistration {
		return GroupByRegistrationID(records)
	}
	return GroupByNormalizedName(records)
}

// Fold groups records with a custom key function
func Fold(records []domain.SubsidyRecord, key KeyFunc) *Groups {
	return fold("", records, key)
}

// fold is the single pass shared by every strategy. Record order only
// decides DisplayName and creation order; counts and totals do not depend on it.
func fold(strategy Strategy, records []domain.SubsidyRecord, key KeyFunc) *Groups {
	groups := newGroups(strategy, len(records)/2)

	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}

		g, ok := groups.index[k]
		if !ok {
			g = &Group{
				Key:           k,
				DisplayName:   r.BeneficiaryName,
				OriginalNames: make(map[string]struct{}, 1),
				TotalAmount:   r.GrantedAmount,
				Count:         1,
				seq:           len(groups.order),
			}
			g.OriginalNames[r.BeneficiaryName] = struct{}{}
			groups.index[k] = g
			groups.order = append(groups.order, g)
			continue
		}

		g.OriginalNames[r.BeneficiaryName] = struct{}{}
		g.Count++
		g.TotalAmount = g.TotalAmount.Add(r.GrantedAmount)
	}

	return groups
}
