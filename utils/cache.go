// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"evently/config"

	"github.com/go-redis/redis/v8"
)

// AuthCacheClient is the dedicated client for auth-session caching: it maps
// hashed bearer tokens to the participant ID they resolved to, so repeated
// requests and websocket handshakes skip JWT re-verification.
var AuthCacheClient *redis.Client

// InitAuthCache initializes the Redis client for auth-session caching.
func InitAuthCache() {
	AuthCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := AuthCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Auth Cache): %v", err)
	}
}

// GetAuthCacheClient returns the Redis client for auth-session caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}
