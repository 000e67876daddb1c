package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_portfolio/internal/app/di"
	"stock_portfolio/internal/app/router"
	dischandler "stock_portfolio/internal/feature/disclosure/transport/handler"
	discusecase "stock_portfolio/internal/feature/disclosure/usecase"
	stockhandler "stock_portfolio/internal/feature/stock/transport/handler"
	jwtmw "stock_portfolio/internal/platform/jwt"
	infraredis "stock_portfolio/internal/platform/redis"
	"stock_portfolio/internal/shared/envconfig"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	// db
	db, err := di.OpenDB()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("failed to get sql.DB", "error", err)
		os.Exit(1)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(context.Background(), infraredis.LoadConfig()); err != nil {
		if !errors.Is(err, infraredis.ErrNotConfigured) {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		}
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Usecase
	disclosureUC := discusecase.NewDisclosureUsecase(di.NewDisclosureStore(rdb, db))
	stockUC := di.NewStockUsecase(db)

	// Handler
	disclosureH := dischandler.NewDisclosureHandler(disclosureUC)
	stockH := stockhandler.NewStockHandler(stockUC)

	r := router.NewRouter(sqlDB, stockH, disclosureH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		slog.Warn("JWT_SECRET is not set. Admin endpoints will reject every request.")
	}

	addr := ":" + envconfig.String("PORT", "8080")
	slog.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
