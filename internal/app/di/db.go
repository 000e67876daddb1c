package di

import (
	"gorm.io/gorm"

	discadapters "stock_portfolio/internal/feature/disclosure/adapters"
	mdadapters "stock_portfolio/internal/feature/marketdata/adapters"
	stockadapters "stock_portfolio/internal/feature/stock/adapters"
	"stock_portfolio/internal/platform/db"
)

// Models はマイグレーション対象のテーブルです。
func Models() []any {
	return []any{
		&stockadapters.StockModel{},
		&mdadapters.MarketDataModel{},
		&discadapters.DisclosureModel{},
	}
}

// OpenDB は環境変数の設定で接続し、必要ならマイグレーションします。
func OpenDB() (*gorm.DB, error) {
	return db.OpenDB(db.LoadConfigFromEnv(), Models()...)
}
