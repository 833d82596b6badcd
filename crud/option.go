package crud

import (
	"log/slog"
	"time"

	"github.com/syssam/crudgen"
)

type config struct {
	logger   *slog.Logger
	cache    crudgen.Cache
	cacheTTL time.Duration
}

// Option configures a Reader or a Table.
type Option func(*config)

// WithLogger logs every statement at debug level. Cache failures are
// logged at warn level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCache caches ListAll results outside transactions. Entries expire
// after ttl (0 for no expiry) and are dropped by every mutation of the
// same table made through a Table.
func WithCache(cache crudgen.Cache, ttl time.Duration) Option {
	return func(c *config) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

func newConfig(opts []Option) config {
	c := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
