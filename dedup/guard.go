package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	guardDefaultKey      = "findings:bloom"
	guardDefaultTTL      = 48 * time.Hour
	guardDefaultCapacity = 10000
	guardErrorRate       = 0.001
	guardOpTimeout       = 5 * time.Second
)

// GuardConfig configures the Redis-backed duplicate-ticket guard.
type GuardConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Key      string        // Default: findings:bloom
	TTL      time.Duration // Default: 48h
}

// TicketGuard is a best-effort suppressor for duplicate tickets when two runs
// execute before the published state catches up. It is probabilistic (a
// RedisBloom filter keyed by finding hash) and purely auxiliary: the pipeline
// is correct with the guard disabled, and callers treat every guard error as
// "not seen".
type TicketGuard struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewTicketGuard connects to Redis and reserves the bloom filter if absent.
func NewTicketGuard(cfg GuardConfig) (*TicketGuard, error) {
	if cfg.Key == "" {
		cfg.Key = guardDefaultKey
	}
	if cfg.TTL == 0 {
		cfg.TTL = guardDefaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), guardOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	// BF.RESERVE only when the key does not exist yet; BF.ADD auto-creates
	// the filter on most RedisBloom setups, so a reserve failure is not fatal.
	exists, err := client.Exists(ctx, cfg.Key).Result()
	if err == nil && exists == 0 {
		_ = client.Do(ctx, "BF.RESERVE", cfg.Key,
			fmt.Sprintf("%f", guardErrorRate), guardDefaultCapacity).Err()
	}

	return &TicketGuard{client: client, key: cfg.Key, ttl: cfg.TTL}, nil
}

// Seen reports whether the finding hash was ticketed within the TTL window.
func (g *TicketGuard) Seen(hash string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), guardOpTimeout)
	defer cancel()

	res, err := g.client.Do(ctx, "BF.EXISTS", g.key, hash).Result()
	if err != nil {
		return false, err
	}

	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// Mark records a ticketed finding hash and refreshes the filter's sliding TTL.
func (g *TicketGuard) Mark(hash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), guardOpTimeout)
	defer cancel()

	if err := g.client.Do(ctx, "BF.ADD", g.key, hash).Err(); err != nil {
		return err
	}
	return g.client.Expire(ctx, g.key, g.ttl).Err()
}

// Close closes the underlying Redis client.
func (g *TicketGuard) Close() error {
	return g.client.Close()
}
