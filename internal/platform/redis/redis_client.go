// Package redis はキャッシュ用の Redis クライアントを生成します。
package redis

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_portfolio/internal/shared/envconfig"
)

// ErrNotConfigured は REDIS_HOST が未設定の場合に返されます。
var ErrNotConfigured = errors.New("redis is not configured")

const pingTimeout = 3 * time.Second

// Config は Redis 接続設定です。
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// LoadConfig は REDIS_HOST / REDIS_PORT / REDIS_PASSWORD / REDIS_DB を読み込みます。
func LoadConfig() Config {
	return Config{
		Host:     envconfig.String("REDIS_HOST", ""),
		Port:     envconfig.String("REDIS_PORT", "6379"),
		Password: envconfig.String("REDIS_PASSWORD", ""),
		DB:       envconfig.Int("REDIS_DB", 0),
	}
}

// Addr は host:port 形式のアドレスを返します。
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewRedisClient は接続確認まで行ったクライアントを返します。
// Host が空なら ErrNotConfigured を返し、呼び出し側はキャッシュなしで動作します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}

	addr := cfg.Addr()
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
