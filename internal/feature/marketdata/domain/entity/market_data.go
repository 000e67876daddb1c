// Package entity はmarketdataフィーチャーのドメインモデルを定義します。
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketData は保有銘柄1つの直近の株価です。価格が取れなかった項目は Valid=false です。
type MarketData struct {
	StockCode     string
	CurrentPrice  decimal.NullDecimal
	PreviousClose decimal.NullDecimal
	UpdatedAt     time.Time
}

// Change は前日比（現在値 - 前日終値）を返します。どちらかが無ければ false です。
func (m MarketData) Change() (decimal.Decimal, bool) {
	if !m.CurrentPrice.Valid || !m.PreviousClose.Valid {
		return decimal.Zero, false
	}
	return m.CurrentPrice.Decimal.Sub(m.PreviousClose.Decimal), true
}

// ChangePercent は前日比率(%)を小数第2位で丸めて返します。
func (m MarketData) ChangePercent() (decimal.Decimal, bool) {
	diff, ok := m.Change()
	if !ok || m.PreviousClose.Decimal.IsZero() {
		return decimal.Zero, false
	}
	return diff.Div(m.PreviousClose.Decimal).Mul(decimal.NewFromInt(100)).Round(2), true
}

// Quote は外部APIから取得した株価です。
type Quote struct {
	Close         decimal.Decimal
	PreviousClose decimal.NullDecimal
}
