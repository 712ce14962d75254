package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenRevoker 记录已注销的令牌 ID，直到令牌自然过期
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedTokenKeyPrefix = "revoked_token:"

type RedisTokenRevoker struct {
	Client *redis.Client
}

func NewTokenRevoker(rdb *redis.Client) TokenRevoker {
	if rdb == nil {
		return NoopTokenRevoker{}
	}
	return &RedisTokenRevoker{Client: rdb}
}

func (r *RedisTokenRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.Client.Set(ctx, revokedTokenKeyPrefix+jti, 1, ttl).Err()
}

func (r *RedisTokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.Client.Exists(ctx, revokedTokenKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// NoopTokenRevoker 未启用 Redis 时使用：注销成功但不记录
type NoopTokenRevoker struct{}

func (NoopTokenRevoker) Revoke(context.Context, string, time.Time) error { return nil }
func (NoopTokenRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }
