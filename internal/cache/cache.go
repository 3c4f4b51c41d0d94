package cache

import (
	"context"
	"time"

	"marketscan/pkg/rest"
)

// Cache keeps raw response snapshots.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

var (
	_ Cache      = (*File)(nil)
	_ Cache      = (*Redis)(nil)
	_ rest.Cache = Cache(nil)
)
