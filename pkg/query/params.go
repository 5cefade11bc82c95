// Package query defines per-request query parameters and the pure
// filter/sort post-processor applied to normalized item lists.
package query

import "net/url"

// Sort selects the ordering applied after filtering.
type Sort string

const (
	// SortDefault preserves the upstream/cached order.
	SortDefault Sort = ""

	// SortPriceAsc orders by parsed price, lowest first.
	SortPriceAsc Sort = "price_asc"

	// SortPriceDesc orders by parsed price, highest first.
	SortPriceDesc Sort = "price_desc"

	// SortTitleAsc orders by case-folded title.
	SortTitleAsc Sort = "title_asc"
)

// ParseSort maps an inbound sortBy value to a Sort. Unrecognized values fall
// back to the default ordering.
func ParseSort(s string) Sort {
	switch s {
	case "price_asc":
		return SortPriceAsc
	case "price_desc":
		return SortPriceDesc
	case "title", "title_asc":
		return SortTitleAsc
	default:
		return SortDefault
	}
}

// Params are the transient per-request query parameters. They are
// constructed fresh per incoming request and never stored.
type Params struct {
	Sort     Sort
	MinPrice string // decimal string; empty or non-numeric disables the bound
	MaxPrice string
	Keywords string // case-insensitive title substring filter
}

// FromValues builds Params from inbound URL query values.
func FromValues(v url.Values) Params {
	return Params{
		Sort:     ParseSort(v.Get("sortBy")),
		MinPrice: v.Get("minPrice"),
		MaxPrice: v.Get("maxPrice"),
		Keywords: v.Get("keywords"),
	}
}
