package reporting

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/aristath/subsidywatch/internal/modules/grouping"
)

// Category is a family of beneficiaries recognised by characteristic
// substrings of their normalized key (e.g. every CPAS/OCMW).
type Category struct {
	Name       string   `yaml:"name" json:"name" msgpack:"name"`
	Label      string   `yaml:"label" json:"label" msgpack:"label"`
	Keywords   []string `yaml:"keywords" json:"keywords" msgpack:"keywords"`
	RequireAll bool     `yaml:"require_all" json:"require_all" msgpack:"require_all"` // Every keyword must match instead of any
}

// Matches reports whether a group key belongs to the category
func (c Category) Matches(key string) bool {
	return matchesKeywords(key, c.Keywords, c.RequireAll)
}

// CategoryReport is the membership of one category
type CategoryReport struct {
	Category    Category          `json:"category" msgpack:"category"`
	Groups      []*grouping.Group `json:"groups" msgpack:"groups"`
	RecordCount int               `json:"record_count" msgpack:"record_count"`
	TotalAmount float64           `json:"total_amount" msgpack:"total_amount"`
}

// DefaultCategories are the categories surfaced by the dashboard out of the box
func DefaultCategories() []Category {
	return []Category{
		{Name: "cpas", Label: "CPAS / OCMW", Keywords: []string{"cpas", "ocmw"}},
		{Name: "police_zone", Label: "Police zones", Keywords: []string{"police", "politie"}},
		{Name: "commune", Label: "Communes", Keywords: []string{"commune", "gemeente"}},
	}
}

type categoriesFile struct {
	Categories []Category `yaml:"categories"`
}

// LoadCategories reads category definitions from a YAML file.
// An empty path returns DefaultCategories.
func LoadCategories(path string) ([]Category, error) {
	if path == "" {
		return DefaultCategories(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}

	var file categoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse categories file %s: %w", path, err)
	}

	for i, c := range file.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("category %d in %s has no name", i, path)
		}
		if len(c.Keywords) == 0 {
			return nil, fmt.Errorf("category %s in %s has no keywords", c.Name, path)
		}
		if c.Label == "" {
			file.Categories[i].Label = c.Name
		}
	}

	return file.Categories, nil
}

// Categorize assigns groups to every category they match. A group may
// belong to several categories. Members are sorted by TotalAmount descending.
func Categorize(groups *grouping.Groups, categories []Category) []CategoryReport {
	reports := make([]CategoryReport, len(categories))
	for i, c := range categories {
		reports[i] = CategoryReport{Category: c, Groups: []*grouping.Group{}}
	}

	totals := make([]decimal.Decimal, len(categories))
	for _, g := range groups.All() {
		for i, c := range categories {
			if !c.Matches(g.Key) {
				continue
			}
			reports[i].Groups = append(reports[i].Groups, g)
			reports[i].RecordCount += g.Count
			totals[i] = totals[i].Add(g.TotalAmount)
		}
	}

	for i := range reports {
		sortByTotalDesc(reports[i].Groups)
		reports[i].TotalAmount, _ = totals[i].Float64()
	}

	return reports
}
