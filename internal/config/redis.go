package config

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisClient is set by InitRedis when the redis page cache backend is enabled.
var RedisClient *redis.Client

func InitRedis(ctx context.Context, cfg RedisConfig) {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	s, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		Logger.Fatal("Error connecting to Redis", zap.String("addr", cfg.Addr), zap.Error(err))
	}
	Logger.Info("Connected to Redis", zap.String("addr", cfg.Addr), zap.String("ping", s))
}
