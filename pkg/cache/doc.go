// Package cache stores normalized item lists with a time-to-live.
//
// The cache holds the unfiltered base set for each upstream query shape;
// per-request filtering and sorting are applied on top of it, never cached.
// Two backends implement the Store interface:
//
//   - Memory: in-process map, injectable clock, the default
//   - Redis: shared cache for multi-replica deployments
//
// # Basic Usage
//
//	store := cache.NewMemory()
//
//	key := cache.Key{Store: "oakandpine", Site: "EBAY-US"}
//
//	items, err := store.Get(ctx, key)
//	if err == cache.ErrMiss {
//		// fetch from upstream, then:
//		store.Set(ctx, key, fetched, 10*time.Minute)
//	}
//
// # Semantics
//
// TTL is measured from insertion. A read after the TTL elapses is a miss;
// nothing is deleted eagerly, the next Set overwrites the stale entry.
// Concurrent misses may race to Set; last write wins, which is acceptable
// because the cached inventory is near-static.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - storefront_cache_hits_total{backend} - Cache hits
//   - storefront_cache_misses_total{backend} - Cache misses
//   - storefront_cache_errors_total{operation} - Cache operation errors
package cache
