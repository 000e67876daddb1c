// Package adapters はstockフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stock_portfolio/internal/feature/stock/domain"
	"stock_portfolio/internal/feature/stock/domain/entity"
	"stock_portfolio/internal/feature/stock/usecase"
)

// stockGorm はStockRepositoryインターフェースのGORM実装です。
type stockGorm struct {
	db *gorm.DB
}

var _ usecase.StockRepository = (*stockGorm)(nil)

// NewStockRepository は指定されたDB接続でstockGormリポジトリの新しいインスタンスを生成します。
func NewStockRepository(db *gorm.DB) *stockGorm {
	return &stockGorm{db: db}
}

// StockModel は stocks テーブルの行です。保有銘柄の登録は外部の管理画面が行います。
type StockModel struct {
	StockCode       string              `gorm:"primaryKey;size:10"`
	StockName       string              `gorm:"size:255"`
	Number          int64               `gorm:"not null;default:0"`
	AveragePrice    decimal.Decimal     `gorm:"type:decimal(14,2);not null;default:0"`
	TargetSellPrice decimal.NullDecimal `gorm:"type:decimal(14,2)"`
	TargetBuyPrice  decimal.NullDecimal `gorm:"type:decimal(14,2)"`
	Remarks         string              `gorm:"size:255"`
	Group           string              `gorm:"column:group;size:10"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (StockModel) TableName() string {
	return "stocks"
}

func toEntity(m StockModel) entity.Stock {
	return entity.Stock{
		Code:            m.StockCode,
		Name:            m.StockName,
		Number:          m.Number,
		AveragePrice:    m.AveragePrice,
		TargetSellPrice: m.TargetSellPrice,
		TargetBuyPrice:  m.TargetBuyPrice,
		Remarks:         m.Remarks,
		Group:           m.Group,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ListAll は銘柄コード順にすべての保有銘柄を返します。
func (r *stockGorm) ListAll(ctx context.Context) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).Order("stock_code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Stock, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// ListCodes は銘柄コード順に保有銘柄のコードのみを返します。
func (r *stockGorm) ListCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Order("stock_code ASC").
		Pluck("stock_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *stockGorm) FindByCode(ctx context.Context, code string) (entity.Stock, error) {
	var m StockModel
	err := r.db.WithContext(ctx).Where("stock_code = ?", code).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Stock{}, domain.ErrStockNotFound
	}
	if err != nil {
		return entity.Stock{}, err
	}
	return toEntity(m), nil
}
