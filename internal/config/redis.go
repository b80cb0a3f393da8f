package config

// Redis backs the response cache and the distributed rate limiter.
// When a connection cannot be established at startup the constructor
// returns nil and callers degrade gracefully by disabling both.

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client from environment
// variables: REDIS_HOST/REDIS_PORT or REDIS_ADDR (host:port),
// REDIS_PASSWORD, REDIS_DB and REDIS_TLS.  The returned client may be
// nil if the server is unreachable.
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "")
	host := envStr("REDIS_HOST", "")
	port := envStr("REDIS_PORT", "")
	if host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	var tlsConf *tls.Config
	if v := envStr("REDIS_TLS", ""); strings.EqualFold(v, "true") || v == "1" {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  envStr("REDIS_PASSWORD", ""),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
