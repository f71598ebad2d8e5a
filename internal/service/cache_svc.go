package service

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sf-developer/video-player/internal/model"
)

// PlayerCacheTTL is the default lifetime of a cached player configuration.
const PlayerCacheTTL = 15 * time.Minute

// CacheService is a Redis cache-aside layer for player configurations.
// With a nil client every operation is a no-op.
type CacheService struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger

	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewCacheService connects to redisURL. An empty URL or a failed connection
// disables caching.
func NewCacheService(redisURL string, ttl time.Duration, log zerolog.Logger) *CacheService {
	if ttl <= 0 {
		ttl = PlayerCacheTTL
	}
	c := &CacheService{ttl: ttl, log: log}

	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, caching disabled")
		return c
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return c
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		_ = rdb.Close()
		return c
	}

	log.Info().Dur("ttl", ttl).Msg("redis: connected, caching enabled")
	c.rdb = rdb
	return c
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// SetCounters attaches hit and miss counters.
func (c *CacheService) SetCounters(hits, misses prometheus.Counter) {
	c.hits, c.misses = hits, misses
}

// GetPlayer returns a cached player, or nil when not cached.
func (c *CacheService) GetPlayer(ctx context.Context, id int64) (*model.Player, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, playerKey(id)).Bytes()
	if err == redis.Nil {
		c.observe(c.misses)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p model.Player
	if err := json.Unmarshal(data, &p); err != nil {
		c.observe(c.misses)
		return nil, fmt.Errorf("decode cached player %d: %w", id, err)
	}
	c.observe(c.hits)
	return &p, nil
}

// SetPlayer stores a player configuration.
func (c *CacheService) SetPlayer(ctx context.Context, p *model.Player) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, playerKey(p.ID), b, c.ttl).Err()
}

// InvalidatePlayer removes a player from cache.
func (c *CacheService) InvalidatePlayer(ctx context.Context, id int64) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, playerKey(id)).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *CacheService) observe(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

func playerKey(id int64) string {
	return fmt.Sprintf("player:%d", id)
}
