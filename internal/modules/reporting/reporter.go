// Package reporting derives read-only summary views from grouped subsidies.
package reporting

import (
	"sort"
	"strings"

	"github.com/aristath/subsidywatch/internal/modules/beneficiaries"
	"github.com/aristath/subsidywatch/internal/modules/grouping"
)

// FindMultiVariantGroups returns groups where several distinct raw names
// collapsed to one key, by TotalAmount descending.
func FindMultiVariantGroups(groups *grouping.Groups) []*grouping.Group {
	out := []*grouping.Group{}
	for _, g := range groups.All() {
		if g.HasVariants() {
			out = append(out, g)
		}
	}
	sortByTotalDesc(out)
	return out
}

// TopN returns the n groups with the largest TotalAmount.
// Ties keep creation order, so repeated calls return the same slice.
func TopN(groups *grouping.Groups, n int) []*grouping.Group {
	if n <= 0 {
		return []*grouping.Group{}
	}

	all := groups.All()
	if len(all) == 0 {
		return []*grouping.Group{}
	}
	sortByTotalDesc(all)
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// FilterByKeywordInKey returns the groups whose key contains keyword, in
// creation order. The keyword is folded with beneficiaries.SearchKey, so
// "Société" or "police-midi" match like the names they came from. A keyword
// made only of punctuation matches nothing.
func FilterByKeywordInKey(groups *grouping.Groups, keyword string) []*grouping.Group {
	out := []*grouping.Group{}
	folded := beneficiaries.SearchKey(keyword)
	if folded == "" && strings.TrimSpace(keyword) != "" {
		return out
	}
	keyword = folded

	for _, g := range groups.All() {
		if strings.Contains(g.Key, keyword) {
			out = append(out, g)
		}
	}
	return out
}

// FilterByAnyKeyword returns the groups whose key contains at least one of
// the keywords, in creation order.
func FilterByAnyKeyword(groups *grouping.Groups, keywords []string) []*grouping.Group {
	out := []*grouping.Group{}
	for _, g := range groups.All() {
		if matchesKeywords(g.Key, keywords, false) {
			out = append(out, g)
		}
	}
	return out
}

// sortByTotalDesc sorts in place; ties fall back to creation order
func sortByTotalDesc(groups []*grouping.Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		cmp := groups[i].TotalAmount.Cmp(groups[j].TotalAmount)
		if cmp != 0 {
			return cmp > 0
		}
		return groups[i].Seq() < groups[j].Seq()
	})
}

func matchesKeywords(key string, keywords []string, requireAll bool) bool {
	matched := 0
	for _, kw := range keywords {
		kw = beneficiaries.SearchKey(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(key, kw) {
			if !requireAll {
				return true
			}
			matched++
		} else if requireAll {
			return false
		}
	}
	return requireAll && matched > 0
}
