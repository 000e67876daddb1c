// Package adapters はmarketdataフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_portfolio/internal/feature/marketdata/domain/entity"
	"stock_portfolio/internal/feature/marketdata/usecase"
)

type marketDataGorm struct {
	db *gorm.DB
}

var _ usecase.MarketDataRepository = (*marketDataGorm)(nil)

func NewMarketDataRepository(db *gorm.DB) *marketDataGorm {
	return &marketDataGorm{db: db}
}

// MarketDataModel は market_data テーブルの行です。保有銘柄と1対1です。
type MarketDataModel struct {
	StockCode     string              `gorm:"primaryKey;size:10"`
	CurrentPrice  decimal.NullDecimal `gorm:"type:decimal(14,2)"`
	PreviousClose decimal.NullDecimal `gorm:"column:previous_price;type:decimal(14,2)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (MarketDataModel) TableName() string {
	return "market_data"
}

func (r *marketDataGorm) Upsert(ctx context.Context, md entity.MarketData) error {
	m := MarketDataModel{
		StockCode:     md.StockCode,
		CurrentPrice:  md.CurrentPrice,
		PreviousClose: md.PreviousClose,
		UpdatedAt:     md.UpdatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_price", "previous_price", "updated_at"}),
	}).Create(&m).Error
}

func (r *marketDataGorm) ListAll(ctx context.Context) ([]entity.MarketData, error) {
	var rows []MarketDataModel
	if err := r.db.WithContext(ctx).Order("stock_code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.MarketData, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.MarketData{
			StockCode:     m.StockCode,
			CurrentPrice:  m.CurrentPrice,
			PreviousClose: m.PreviousClose,
			UpdatedAt:     m.UpdatedAt,
		})
	}
	return out, nil
}

// ListMissingCodes は stocks にあって market_data に無い銘柄コードを返します。
func (r *marketDataGorm) ListMissingCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Table("stocks AS s").
		Joins("LEFT JOIN market_data AS m ON m.stock_code = s.stock_code").
		Where("m.stock_code IS NULL").
		Order("s.stock_code ASC").
		Pluck("s.stock_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
