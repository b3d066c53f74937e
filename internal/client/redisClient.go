package client

import (
	"context"
	"time"

	"cardapiopro-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// InitRedisClient returns nil when Redis is not configured or does not answer
// a ping; rate limiting then degrades to pass-through.
func InitRedisClient(cfg config.Redis) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil
	}

	return rdb
}
