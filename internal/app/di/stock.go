package di

import (
	mdadapters "stock_portfolio/internal/feature/marketdata/adapters"
	stockadapters "stock_portfolio/internal/feature/stock/adapters"
	stockusecase "stock_portfolio/internal/feature/stock/usecase"

	"gorm.io/gorm"
)

// NewStockUsecase creates the holdings usecase backed by the stocks and market_data tables.
func NewStockUsecase(db *gorm.DB) *stockusecase.StockUsecase {
	return stockusecase.NewStockUsecase(
		stockadapters.NewStockRepository(db),
		mdadapters.NewMarketDataRepository(db),
	)
}
