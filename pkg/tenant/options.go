package tenant

import (
	"io"
	"log/slog"
	"time"
)

type config struct {
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Option configures the Resolver.
type Option func(*config)

func defaultConfig() *config {
	return &config{
		cache:    NewMemoryCache(),
		cacheTTL: 5 * time.Minute,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithCache sets a custom cache implementation.
func WithCache(cache Cache) Option {
	return func(c *config) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithCacheTTL sets how long resolution results are cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
