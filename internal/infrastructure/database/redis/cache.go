package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

// DefaultKeyPrefix namespaces every key written by the view cache.
const DefaultKeyPrefix = "grayzone:"

const (
	keyLatest     = "view:latest"
	keyHashPrefix = "view:"
)

var ErrCacheMiss = errors.New(errors.ErrCodeCacheMiss, "cache miss")

// ViewCache persists composed view payloads so a restarted process can serve
// the last good view before its first refresh completes.
type ViewCache interface {
	// StoreView writes payload under both the latest key and the hash key.
	StoreView(ctx context.Context, hash string, payload []byte) error
	// LoadLatest returns the most recently stored payload or ErrCacheMiss.
	LoadLatest(ctx context.Context) ([]byte, error)
	// LoadByHash returns the payload stored for hash or ErrCacheMiss.
	LoadByHash(ctx context.Context, hash string) ([]byte, error)
	Ping(ctx context.Context) error
}

type viewCache struct {
	client       *Client
	logger       logging.Logger
	prefix       string
	ttl          time.Duration
	singleflight singleflight.Group
}

type CacheOption func(*viewCache)

func WithPrefix(prefix string) CacheOption {
	return func(c *viewCache) { c.prefix = prefix }
}

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *viewCache) { c.ttl = ttl }
}

// NewViewCache builds a ViewCache over client.  Prefix and TTL default to the
// client's configuration.
func NewViewCache(client *Client, log logging.Logger, opts ...CacheOption) ViewCache {
	c := &viewCache{
		client: client,
		logger: log,
		prefix: DefaultKeyPrefix,
		ttl:    24 * time.Hour,
	}
	if cfg := client.config; cfg != nil {
		if cfg.KeyPrefix != "" {
			c.prefix = cfg.KeyPrefix
		}
		if cfg.TTL > 0 {
			c.ttl = cfg.TTL
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *viewCache) latestKey() string { return c.prefix + keyLatest }

func (c *viewCache) hashKey(hash string) string { return c.prefix + keyHashPrefix + hash }

func (c *viewCache) StoreView(ctx context.Context, hash string, payload []byte) error {
	if hash == "" {
		return errors.New(errors.ErrCodeValidation, "view hash required")
	}
	if len(payload) == 0 {
		return errors.New(errors.ErrCodeValidation, "view payload is empty")
	}
	if c.client.isClosed() {
		return ErrClientClosed
	}

	pipe := c.client.rdb.TxPipeline()
	pipe.Set(ctx, c.latestKey(), payload, c.ttl)
	pipe.Set(ctx, c.hashKey(hash), payload, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to store view").WithDetail(hash)
	}
	c.logger.Debug("view cached", logging.String("hash", hash), logging.Int("bytes", len(payload)))
	return nil
}

func (c *viewCache) LoadLatest(ctx context.Context) ([]byte, error) {
	v, err, _ := c.singleflight.Do(keyLatest, func() (interface{}, error) {
		return c.load(ctx, c.latestKey())
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *viewCache) LoadByHash(ctx context.Context, hash string) ([]byte, error) {
	if hash == "" {
		return nil, ErrCacheMiss
	}
	return c.load(ctx, c.hashKey(hash))
}

func (c *viewCache) load(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to read view").WithDetail(key)
	}
	if len(data) == 0 {
		return nil, ErrCacheMiss
	}
	return data, nil
}

func (c *viewCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

//Personal.AI order the ending
