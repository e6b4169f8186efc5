package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/planora/planora-backend/internal/platform/envutil"
	"github.com/planora/planora-backend/internal/platform/logger"
)

// RateLimiter bounds how often a caller may hit the AI-backed operations.
// This is a request throttle, not the plan quota: the quota is always
// recomputed from the database and never cached here.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

type rateLimiter struct {
	log    *logger.Logger
	rdb    *goredis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter requires REDIS_ADDR. Callers treat a construction failure as
// "run without throttling", so a missing Redis never blocks startup.
func NewRateLimiter(log *logger.Logger) (RateLimiter, error) {
	addr := strings.TrimSpace(envutil.Str("REDIS_ADDR", ""))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &rateLimiter{
		log:    log.With("service", "RedisRateLimiter"),
		rdb:    rdb,
		limit:  envutil.Int("AI_RATE_LIMIT", 10),
		window: envutil.Seconds("AI_RATE_WINDOW_SECONDS", 60),
	}, nil
}

func (rl *rateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("planora:ai:%s:%d", key, time.Now().Unix()/int64(rl.window.Seconds()))

	count, err := rl.rdb.Incr(ctx, bucket).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := rl.rdb.Expire(ctx, bucket, rl.window).Err(); err != nil {
			rl.log.Warn("failed to set rate bucket expiry", "error", err)
		}
	}
	return count <= int64(rl.limit), nil
}

func (rl *rateLimiter) Close() error {
	return rl.rdb.Close()
}
