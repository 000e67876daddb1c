// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	mdadapters "stock_portfolio/internal/feature/marketdata/adapters"
	mdusecase "stock_portfolio/internal/feature/marketdata/usecase"
	stockadapters "stock_portfolio/internal/feature/stock/adapters"
	"stock_portfolio/internal/platform/externalapi/twelvedata"
	infrahttp "stock_portfolio/internal/platform/http"
	"stock_portfolio/internal/shared/ratelimiter"

	"gorm.io/gorm"
)

// NewQuoteClient creates a Twelve Data quote client with its own HTTP client.
func NewQuoteClient(cfg twelvedata.Config) *twelvedata.QuoteClient {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return twelvedata.NewQuoteClient(cfg, httpClient)
}

// NewQuoteUsecase wires the quote updater: Twelve Data, the market_data table and a per-minute rate limiter.
func NewQuoteUsecase(db *gorm.DB, cfg twelvedata.Config) *mdusecase.QuoteUsecase {
	return mdusecase.NewQuoteUsecase(
		NewQuoteClient(cfg),
		mdadapters.NewMarketDataRepository(db),
		stockadapters.NewStockRepository(db),
		ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute),
	)
}
