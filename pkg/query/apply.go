package query

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopgrid/storefront/pkg/catalog"
)

// Apply filters and sorts a normalized item list. Pure: the input slice is
// never mutated, the returned slice is always non-nil.
//
// Filters run before the sort and compose as a logical AND. An item whose
// price does not parse as a decimal is excluded whenever a price bound is
// active, and sorts after every parsable price under both price orderings.
// A bound that is itself non-numeric is ignored. Sorts are stable: ties keep
// their original relative order.
func Apply(items []catalog.Item, p Params) []catalog.Item {
	keyword := strings.ToLower(strings.TrimSpace(p.Keywords))
	minPrice, hasMin := parseBound(p.MinPrice)
	maxPrice, hasMax := parseBound(p.MaxPrice)

	out := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if keyword != "" && !strings.Contains(strings.ToLower(item.Title), keyword) {
			continue
		}

		if hasMin || hasMax {
			price, ok := item.PriceDecimal()
			if !ok {
				continue
			}
			if hasMin && price.LessThan(minPrice) {
				continue
			}
			if hasMax && price.GreaterThan(maxPrice) {
				continue
			}
		}

		out = append(out, item)
	}

	sortItems(out, p.Sort)
	return out
}

// parseBound parses an optional decimal bound. Empty or non-numeric values
// disable the bound.
func parseBound(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func sortItems(items []catalog.Item, by Sort) {
	switch by {
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return priceLess(items[i], items[j], false)
		})
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return priceLess(items[i], items[j], true)
		})
	case SortTitleAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
		})
	default:
		// preserve upstream/cached order
	}
}

// priceLess compares two items by parsed price. Items with an unparsable
// price order after every parsable one regardless of direction.
func priceLess(a, b catalog.Item, desc bool) bool {
	pa, okA := a.PriceDecimal()
	pb, okB := b.PriceDecimal()

	if !okA {
		return false
	}
	if !okB {
		return true
	}
	if desc {
		return pa.GreaterThan(pb)
	}
	return pa.LessThan(pb)
}
