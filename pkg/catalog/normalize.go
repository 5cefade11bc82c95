package catalog

import "github.com/shopgrid/storefront/pkg/ebay"

// Normalize flattens a raw Finding API envelope into the item list used by
// the pipeline. Pure: no I/O, deterministic for a given envelope.
//
// Each wrapped scalar is unwrapped to its first element. Items missing an
// id, title, price, or listing URL are dropped. The large picture field is
// preferred over the gallery thumbnail. Ordering is upstream-determined.
func Normalize(env *ebay.Envelope) []Item {
	raw := env.Items()
	items := make([]Item, 0, len(raw))

	for _, r := range raw {
		item := Item{
			ID:         ebay.First(r.ItemID),
			Title:      ebay.First(r.Title),
			ListingURL: ebay.First(r.ViewItemURL),
		}

		if len(r.SellingStatus) > 0 && len(r.SellingStatus[0].CurrentPrice) > 0 {
			price := r.SellingStatus[0].CurrentPrice[0]
			item.Price = price.Value
			item.Currency = price.CurrencyID
		}

		if img := ebay.First(r.PictureURLLarge); img != "" {
			item.ImageURL = img
		} else {
			item.ImageURL = ebay.First(r.GalleryURL)
		}

		if item.Complete() {
			items = append(items, item)
		}
	}

	return items
}
