package database

import (
	"context"
	"edu_core_backend/internal/config"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis 未启用时返回 nil 客户端，调用方需容忍 nil
func InitRedis(cfg *config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	if !cfg.Enabled {
		log.Info("Redis disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	log.Info("Redis connection established")
	return rdb, nil
}
