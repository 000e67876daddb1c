// Package entity はstockフィーチャーのドメインモデルを定義します。
package entity

import (
	"time"

	"github.com/shopspring/decimal"

	mdentity "stock_portfolio/internal/feature/marketdata/domain/entity"
)

// Stock はユーザーの保有銘柄です。
type Stock struct {
	Code            string // 銘柄コード
	Name            string
	Number          int64           // 保有株数
	AveragePrice    decimal.Decimal // 取得単価
	TargetSellPrice decimal.NullDecimal
	TargetBuyPrice  decimal.NullDecimal
	Remarks         string
	Group           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Holding は保有銘柄と直近の株価を組み合わせたものです。株価が未取得なら Quote は nil です。
type Holding struct {
	Stock
	Quote *mdentity.MarketData
}

// MarketValue は評価額（現在値 × 保有株数）です。
func (h Holding) MarketValue() (decimal.Decimal, bool) {
	if h.Quote == nil || !h.Quote.CurrentPrice.Valid {
		return decimal.Zero, false
	}
	return h.Quote.CurrentPrice.Decimal.Mul(decimal.NewFromInt(h.Number)), true
}

// UnrealizedGain は評価損益（(現在値 - 取得単価) × 保有株数）です。
func (h Holding) UnrealizedGain() (decimal.Decimal, bool) {
	if h.Quote == nil || !h.Quote.CurrentPrice.Valid {
		return decimal.Zero, false
	}
	return h.Quote.CurrentPrice.Decimal.Sub(h.AveragePrice).Mul(decimal.NewFromInt(h.Number)), true
}

// ReachedSellTarget は現在値が目標売却価格以上かを返します。
func (h Holding) ReachedSellTarget() bool {
	if h.Quote == nil || !h.Quote.CurrentPrice.Valid || !h.TargetSellPrice.Valid {
		return false
	}
	return h.Quote.CurrentPrice.Decimal.GreaterThanOrEqual(h.TargetSellPrice.Decimal)
}

// ReachedBuyTarget は現在値が目標購入価格以下かを返します。
func (h Holding) ReachedBuyTarget() bool {
	if h.Quote == nil || !h.Quote.CurrentPrice.Valid || !h.TargetBuyPrice.Valid {
		return false
	}
	return h.Quote.CurrentPrice.Decimal.LessThanOrEqual(h.TargetBuyPrice.Decimal)
}
