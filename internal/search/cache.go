package search

import (
	"context"
	"crypto/sha1"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

const cacheKeyPrefix = "truthly:search:"

// Cache memoizes search results by query.
type Cache interface {
	Get(ctx context.Context, query string) ([]Result, bool)
	Set(ctx context.Context, query string, results []Result)
}

// ValkeyCache stores search results in valkey with a TTL. Cache errors are
// logged and treated as misses.
type ValkeyCache struct {
	client valkey.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewValkeyCache connects to valkey and pings it.
func NewValkeyCache(ctx context.Context, cfg CacheConfig, logger *slog.Logger) (*ValkeyCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	logger.Info("[SearchCache] Connected to valkey", slog.String("address", cfg.Address))
	return &ValkeyCache{client: client, ttl: ttl, logger: logger}, nil
}

func (c *ValkeyCache) Get(ctx context.Context, query string) ([]Result, bool) {
	raw, err := c.client.Do(ctx, c.client.B().Get().Key(cacheKey(query)).Build()).ToString()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			c.logger.Warn("[SearchCache] Get failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var results []Result
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		c.logger.Warn("[SearchCache] Dropping undecodable entry", slog.String("error", err.Error()))
		return nil, false
	}
	return results, true
}

func (c *ValkeyCache) Set(ctx context.Context, query string, results []Result) {
	raw, err := json.Marshal(results)
	if err != nil {
		return
	}
	cmd := c.client.B().Setex().Key(cacheKey(query)).Seconds(int64(c.ttl.Seconds())).Value(string(raw)).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		c.logger.Warn("[SearchCache] Set failed", slog.String("error", err.Error()))
	}
}

// Close releases the connection.
func (c *ValkeyCache) Close() {
	c.client.Close()
}

func cacheKey(query string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(query))))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
