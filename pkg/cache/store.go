package cache

import (
	"context"
	"errors"
	"time"

	"github.com/shopgrid/storefront/pkg/catalog"
)

// ErrMiss indicates the requested key was not found or its entry expired.
var ErrMiss = errors.New("cache miss")

// Store holds normalized item lists with a time-to-live measured from
// insertion. A read after the TTL elapses is a miss; the stale entry is
// simply overwritten by the next Set (last write wins).
type Store interface {
	Get(ctx context.Context, key Key) ([]catalog.Item, error)
	Set(ctx context.Context, key Key, items []catalog.Item, ttl time.Duration) error
}
