package ops

import (
	"context"

	"marketscan/internal/cache"
	"marketscan/pkg/rest"
)

// NewCache opens the configured response cache. The none backend returns a nil cache.
func NewCache(ctx context.Context, spec CacheSpec) (rest.Cache, func() error, error) {
	noop := func() error { return nil }

	switch spec.Backend {
	case CacheFile:
		f, err := cache.NewFile(spec.Dir, spec.TTL)
		if err != nil {
			return nil, noop, err
		}
		return f, noop, nil
	case CacheRedis:
		r, err := cache.NewRedis(ctx, cache.RedisOption{
			Addr:     spec.Redis.Addr,
			Password: spec.Redis.Password,
			DB:       spec.Redis.DB,
			Prefix:   spec.Redis.Prefix,
		})
		if err != nil {
			return nil, noop, err
		}
		return r, r.Close, nil
	default:
		return nil, noop, nil
	}
}

// NewRESTClient builds the shared venue client with the optional cache.
func NewRESTClient(ctx context.Context, cfg Loaded) (*rest.Client, func() error, error) {
	c, closeCache, err := NewCache(ctx, cfg.Cache)
	if err != nil {
		return nil, closeCache, err
	}

	opt := cfg.HTTP
	opt.Cache = c
	opt.CacheTTL = cfg.Cache.TTL

	client, err := rest.New(opt)
	if err != nil {
		_ = closeCache()
		return nil, func() error { return nil }, err
	}

	return client, closeCache, nil
}

// WithoutCache returns cfg with the response cache disabled. Live endpoints such as
// candles and order books must never be served from a snapshot.
func (cfg Loaded) WithoutCache() Loaded {
	cfg.Cache.Backend = CacheNone
	return cfg
}
