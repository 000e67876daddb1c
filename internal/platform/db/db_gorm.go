// Package db はデータベース接続の確立とマイグレーションを提供します。
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"stock_portfolio/internal/shared/envconfig"
)

const (
	defaultConnectTimeout = 60 * time.Second
	retryInterval         = 3 * time.Second
)

// Config はDB接続設定です。URL が設定されていれば PostgreSQL、なければ MySQL に接続します。
type Config struct {
	URL string // PostgreSQL DSN (DATABASE_URL)

	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string // Cloud SQL の接続名。設定時は Unix ソケットを使う

	ConnectTimeout time.Duration
	RunMigrations  bool
}

// Opener は DSN から *gorm.DB を開く関数です。テストで差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv は環境変数からDB設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		URL:            envconfig.String("DATABASE_URL", ""),
		User:           envconfig.String("DB_USER", ""),
		Password:       envconfig.String("DB_PASSWORD", ""),
		Name:           envconfig.String("DB_NAME", ""),
		Host:           envconfig.String("DB_HOST", "localhost"),
		Port:           envconfig.String("DB_PORT", "3306"),
		InstanceName:   envconfig.String("INSTANCE_CONNECTION_NAME", ""),
		ConnectTimeout: envconfig.Duration("DB_CONNECT_TIMEOUT", defaultConnectTimeout),
		RunMigrations:  envconfig.Bool("RUN_MIGRATIONS", false),
	}
}

// BuildDSN は MySQL 用の DSN を組み立てます。InstanceName が優先されます。
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// openerFor は設定に応じたドライバと DSN を返します。
func openerFor(cfg Config) (Opener, string, string) {
	gcfg := &gorm.Config{TranslateError: true}
	if cfg.URL != "" {
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}, cfg.URL, "postgres"
	}
	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(mysql.Open(dsn), gcfg)
	}, BuildDSN(cfg), "mysql"
}

// ConnectWithRetry は timeout に達するまで retryInterval 間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenDB は接続を確立し、RunMigrations が true ならテーブルを作成・更新します。
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	open, dsn, driver := openerFor(cfg)
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	db, err := ConnectWithRetry(dsn, timeout, open)
	if err != nil {
		return nil, err
	}
	slog.Info("db connected", "driver", driver)

	if cfg.RunMigrations && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		slog.Info("db migrated", "models", len(models))
	}
	return db, nil
}
