package reporting

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/subsidywatch/internal/modules/grouping"
)

// concentrationTop is how many beneficiaries count towards TopShare
const concentrationTop = 10

// Summary holds headline figures for a grouping pass
type Summary struct {
	Strategy    grouping.Strategy `json:"strategy" msgpack:"strategy"`
	GroupCount  int               `json:"group_count" msgpack:"group_count"`
	RecordCount int               `json:"record_count" msgpack:"record_count"`
	VariantKeys int               `json:"variant_keys" msgpack:"variant_keys"` // Groups with more than one raw name
	TotalAmount float64           `json:"total_amount" msgpack:"total_amount"`
	MeanAmount  float64           `json:"mean_amount" msgpack:"mean_amount"`
	Median      float64           `json:"median_amount" msgpack:"median_amount"`
	StdDev      float64           `json:"stddev_amount" msgpack:"stddev_amount"`
	MaxAmount   float64           `json:"max_amount" msgpack:"max_amount"`
	TopShare    float64           `json:"top10_share" msgpack:"top10_share"` // Share of TotalAmount held by the ten largest groups
}

// Summarize computes distribution figures over group totals
func Summarize(groups *grouping.Groups) Summary {
	summary := Summary{
		Strategy:    groups.Strategy(),
		GroupCount:  groups.Len(),
		RecordCount: groups.RecordCount(),
	}
	if groups.Len() == 0 {
		return summary
	}

	totals := make([]float64, 0, groups.Len())
	for _, g := range groups.All() {
		totals = append(totals, g.TotalFloat())
		if g.HasVariants() {
			summary.VariantKeys++
		}
	}

	summary.TotalAmount, _ = groups.TotalAmount().Float64()
	summary.MeanAmount = stat.Mean(totals, nil)
	if len(totals) > 1 {
		summary.StdDev = stat.StdDev(totals, nil)
	}

	sort.Float64s(totals)
	summary.Median = median(totals)
	summary.MaxAmount = totals[len(totals)-1]

	if summary.TotalAmount > 0 {
		var top float64
		for _, g := range TopN(groups, concentrationTop) {
			top += g.TotalFloat()
		}
		summary.TopShare = top / summary.TotalAmount
	}

	return summary
}

// median expects sorted values. Even counts average the middle pair.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return stat.Mean(sorted[n/2-1:n/2+1], nil)
}
