package mockserver

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is a catalogue entry served by the mock.
type Item struct {
	Code        string
	Combination bool
	Name        string
	Type        string
	Price       decimal.Decimal
	WeightKg    decimal.Decimal
	// Children lists component codes and quantities of a combination.
	Children map[string]int
}

func (it Item) iowsType() string {
	if it.Combination {
		return "SPR"
	}
	return "ART"
}

// DefaultCatalog returns a small fixed catalogue with articles and one
// combination built from them.
func DefaultCatalog() []Item {
	return []Item{
		{
			Code:     "00263850",
			Name:     "BILLY",
			Type:     "Bookcase",
			Price:    decimal.NewFromInt(4999),
			WeightKg: decimal.RequireFromString("29.6"),
		},
		{
			Code:     "10263848",
			Name:     "OXBERG",
			Type:     "Glass door",
			Price:    decimal.NewFromInt(2999),
			WeightKg: decimal.RequireFromString("6.1"),
		},
		{
			Code:     "80214139",
			Name:     "MARKUS",
			Type:     "Office chair",
			Price:    decimal.NewFromInt(15999),
			WeightKg: decimal.RequireFromString("21.4"),
		},
		{
			Code:        "59128563",
			Combination: true,
			Name:        "BILLY / OXBERG",
			Type:        "Bookcase with glass doors",
			Price:       decimal.NewFromInt(10997),
			Children:    map[string]int{"00263850": 1, "10263848": 2},
		},
	}
}

type catalog map[string]Item

func newCatalog(items []Item) catalog {
	c := make(catalog, len(items))
	for _, it := range items {
		c[it.Code] = it
	}
	return c
}

// weight is the item's own weight, or the sum of its children's.
func (c catalog) weight(it Item) decimal.Decimal {
	if !it.Combination {
		return it.WeightKg
	}
	total := decimal.Zero
	for code, qty := range it.Children {
		total = total.Add(c[code].WeightKg.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

func (c catalog) search(query string) []Item {
	q := strings.ToLower(query)
	var hits []Item
	for _, it := range c {
		if strings.Contains(strings.ToLower(it.Name), q) || strings.Contains(strings.ToLower(it.Type), q) {
			hits = append(hits, it)
		}
	}
	slices.SortFunc(hits, func(a, b Item) int { return cmp.Compare(a.Code, b.Code) })
	return hits
}
