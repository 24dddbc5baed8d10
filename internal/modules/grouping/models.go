// Package grouping folds subsidy records into per-beneficiary aggregates.
package grouping

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// Strategy identifies which grouping key produced a set of groups
type Strategy string

const (
	// StrategyName groups by NormalizedKey of the beneficiary name
	StrategyName Strategy = "name"
	// StrategyRegistration groups by registration id (BCE/KBO number)
	StrategyRegistration Strategy = "registration"
)

// ParseStrategy maps a query value to a Strategy, defaulting to StrategyName
func ParseStrategy(s string) (Strategy, bool) {
	switch s {
	case "", "name", "normalized", "normalized_name":
		return StrategyName, true
	case "registration", "registration_id", "bce", "kbo":
		return StrategyRegistration, true
	default:
		return "", false
	}
}

// Group aggregates every record that shares one grouping key.
// Groups are immutable once returned by a grouping pass.
type Group struct {
	Key           string
	DisplayName   string              // First raw beneficiary name seen for this key
	OriginalNames map[string]struct{} // Distinct raw names mapped to this key
	Count         int
	TotalAmount   decimal.Decimal
	seq           int // Creation order inside its Groups
}

// Names returns the distinct raw names, sorted
func (g *Group) Names() []string {
	names := make([]string, 0, len(g.OriginalNames))
	for n := range g.OriginalNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// VariantCount returns the number of distinct raw names
func (g *Group) VariantCount() int {
	return len(g.OriginalNames)
}

// HasVariants reports whether several distinct raw names collapsed to this key
func (g *Group) HasVariants() bool {
	return len(g.OriginalNames) > 1
}

// Seq returns the creation position of the group inside its grouping pass
func (g *Group) Seq() int {
	return g.seq
}

// TotalFloat returns TotalAmount as float64
func (g *Group) TotalFloat() float64 {
	f, _ := g.TotalAmount.Float64()
	return f
}

// View is the serialized shape of a Group
type View struct {
	Key           string   `json:"key" msgpack:"key"`
	DisplayName   string   `json:"display_name" msgpack:"display_name"`
	OriginalNames []string `json:"original_names" msgpack:"original_names"`
	Count         int      `json:"count" msgpack:"count"`
	TotalAmount   float64  `json:"total_amount" msgpack:"total_amount"`
}

// View converts the group to its serialized shape
func (g *Group) View() View {
	return View{
		Key:           g.Key,
		DisplayName:   g.DisplayName,
		OriginalNames: g.Names(),
		Count:         g.Count,
		TotalAmount:   g.TotalFloat(),
	}
}

// MarshalJSON implements json.Marshaler
func (g *Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.View())
}

// EncodeMsgpack implements msgpack.CustomEncoder
func (g *Group) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(g.View())
}

// Groups is the result of one grouping pass: a mapping from key to Group
// that also remembers creation order.
type Groups struct {
	strategy Strategy
	index    map[string]*Group
	order    []*Group
}

func newGroups(strategy Strategy, sizeHint int) *Groups {
	return &Groups{
		strategy: strategy,
		index:    make(map[string]*Group, sizeHint),
		order:    make([]*Group, 0, sizeHint),
	}
}

// Strategy returns the grouping strategy that built these groups
func (gs *Groups) Strategy() Strategy {
	if gs == nil {
		return ""
	}
	return gs.strategy
}

// Len returns the number of groups
func (gs *Groups) Len() int {
	if gs == nil {
		return 0
	}
	return len(gs.order)
}

// Get looks up a group by key
func (gs *Groups) Get(key string) (*Group, bool) {
	if gs == nil {
		return nil, false
	}
	g, ok := gs.index[key]
	return g, ok
}

// All returns the groups in creation order. The slice is a copy.
func (gs *Groups) All() []*Group {
	if gs == nil {
		return nil
	}
	out := make([]*Group, len(gs.order))
	copy(out, gs.order)
	return out
}

// TotalAmount returns the sum of all group totals
func (gs *Groups) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	if gs == nil {
		return total
	}
	for _, g := range gs.order {
		total = total.Add(g.TotalAmount)
	}
	return total
}

// RecordCount returns the number of records that were folded into a group
func (gs *Groups) RecordCount() int {
	if gs == nil {
		return 0
	}
	n := 0
	for _, g := range gs.order {
		n += g.Count
	}
	return n
}
