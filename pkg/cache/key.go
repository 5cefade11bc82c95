package cache

import "strings"

// Key identifies one cached base set. There is one key per upstream query
// shape (store and site); request filters never participate because the
// cached set is the unfiltered normalized list.
type Key struct {
	// Store is the upstream store name.
	Store string

	// Site is the marketplace site identifier (e.g. "EBAY-US").
	Site string
}

// String generates a deterministic cache key string.
// Format: storefront:items:store:site
func (k Key) String() string {
	parts := []string{"storefront", "items"}

	if store := strings.TrimSpace(k.Store); store != "" {
		parts = append(parts, store)
	}
	if site := strings.TrimSpace(k.Site); site != "" {
		parts = append(parts, site)
	}

	return strings.Join(parts, ":")
}
