package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	discadapters "stock_portfolio/internal/feature/disclosure/adapters"
	"stock_portfolio/internal/feature/disclosure/adapters/document"
	"stock_portfolio/internal/feature/disclosure/adapters/gemini"
	discusecase "stock_portfolio/internal/feature/disclosure/usecase"
	"stock_portfolio/internal/platform/cache"
)

// disclosureCacheTTL はダッシュボード向け一覧のキャッシュ期間です。
const disclosureCacheTTL = time.Minute

// NewDisclosureStore returns the disclosure repository.
// If Redis is available, reads are cached and every write invalidates the cache.
func NewDisclosureStore(rdb *redis.Client, db *gorm.DB) cache.DisclosureStore {
	repo := discadapters.NewDisclosureRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingDisclosureRepository(rdb, disclosureCacheTTL, repo, "disclosures")
}

// NewAnalyzer wires the per-record analyzer from environment configuration.
// A missing GEMINI_API_KEY is returned as an error.
func NewAnalyzer(ctx context.Context, store discusecase.OutcomeWriter, db *gorm.DB) (*discusecase.AnalyzeUsecase, error) {
	gcfg, err := gemini.LoadConfig()
	if err != nil {
		return nil, err
	}
	generator, err := gemini.NewGenerator(ctx, gcfg)
	if err != nil {
		return nil, fmt.Errorf("init gemini: %w", err)
	}
	fetcher := document.NewFetcher(document.LoadConfig())
	return discusecase.NewAnalyzeUsecase(fetcher, generator, store, NewStockUsecase(db)), nil
}

// NewBatchDriver wires the analyzer and the batch loop.
func NewBatchDriver(ctx context.Context, rdb *redis.Client, db *gorm.DB, opts ...discusecase.BatchOption) (*discusecase.BatchDriver, error) {
	store := NewDisclosureStore(rdb, db)
	analyzer, err := NewAnalyzer(ctx, store, db)
	if err != nil {
		return nil, err
	}
	return discusecase.NewBatchDriver(store, analyzer, discusecase.LoadBatchConfig(), opts...), nil
}
