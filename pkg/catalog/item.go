// Package catalog defines the normalized product record used throughout the
// pipeline and the normalizer that produces it from raw Finding API envelopes.
package catalog

import "github.com/shopspring/decimal"

// Item is a flattened, validated store listing.
type Item struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Price      string `json:"price"`
	Currency   string `json:"currency,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	ListingURL string `json:"listingUrl"`
}

// Complete reports whether the item satisfies the retention invariant:
// non-empty id, title, price, and listing URL. Incomplete items are dropped
// during normalization.
func (i Item) Complete() bool {
	return i.ID != "" && i.Title != "" && i.Price != "" && i.ListingURL != ""
}

// PriceDecimal parses the item's price. The second return is false when the
// price is missing or not numeric.
func (i Item) PriceDecimal() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(i.Price)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
