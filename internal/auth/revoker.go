package auth

import (
	"context"
	"github.com/redis/go-redis/v9"
	"time"
)

const blacklistPrefix = "blacklist:"

type RedisRevoker struct {
	rdb redis.Cmdable
}

func NewRedisRevoker(rdb redis.Cmdable) *RedisRevoker {
	return &RedisRevoker{rdb: rdb}
}

func (r *RedisRevoker) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	return r.rdb.Set(ctx, blacklistPrefix+token, "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.rdb.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
