package realtime

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedis returns nil when addr is empty; callers treat that as "no Redis".
func NewRedis(addr, password string, db int, logger *zap.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	logger.Info("redis client created", zap.String("addr", addr))
	return rdb
}
