package config

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisClient is a global Redis client instance, nil when REDIS_ADDR is unset
// or the server did not answer a ping.
var RedisClient *redis.Client

var locker *redislock.Client

func InitRedis() {
	addr := GetEnv("REDIS_ADDR", "")
	if addr == "" {
		RedisClient, locker = nil, nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetEnv("REDIS_PASS", ""),
		DB:       GetEnvInt("REDIS_DB", 0),
	})
	ctx, cancel := context.WithTimeout(RedisCtx(), 2*time.Second)
	defer cancel()
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		GetLogger().Warnf("redis configured but not reachable, falling back to in-memory cache: %v", err)
		_ = RedisClient.Close()
		RedisClient, locker = nil, nil
		return
	}
	locker = redislock.New(RedisClient)
}

// GetRedisLock returns the distributed lock client, nil without redis.
func GetRedisLock() *redislock.Client {
	return locker
}

func CloseRedis() {
	if RedisClient != nil {
		_ = RedisClient.Close()
	}
}

func RedisCtx() context.Context {
	return context.Background()
}
