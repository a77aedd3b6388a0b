package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"integoreport/pkg/config"
	"integoreport/pkg/logger"

	"github.com/go-redis/redis/v8"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// GetRedisCache 获取统计缓存的Redis客户端单例
// 未启用缓存时返回nil，调用方自行降级为直接计算
func GetRedisCache() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.GetConfig()
		if !cfg.Redis.Enabled {
			return
		}
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			// 缓存不可用只降级，不阻断主流程
			logger.GetLogger().Warnf("Redis连接失败，统计缓存已禁用: %v", err)
			_ = client.Close()
			return
		}
		redisClient = client
	})
	return redisClient
}

// CloseRedisCache 关闭Redis连接
func CloseRedisCache() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}
