// Package dto defines data transfer objects for the stock HTTP API.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stock_portfolio/internal/feature/stock/domain/entity"
)

// HoldingItem represents a held stock in the API response.
// Prices are serialized as decimal strings; missing values are null.
type HoldingItem struct {
	Code              string           `json:"code"`
	Name              string           `json:"name"`
	Number            int64            `json:"number"`
	AveragePrice      decimal.Decimal  `json:"average_price"`
	TargetSellPrice   *decimal.Decimal `json:"target_sell_price"`
	TargetBuyPrice    *decimal.Decimal `json:"target_buy_price"`
	Remarks           string           `json:"remarks"`
	Group             string           `json:"group"`
	CurrentPrice      *decimal.Decimal `json:"current_price"`
	PreviousClose     *decimal.Decimal `json:"previous_close"`
	ChangePercent     *decimal.Decimal `json:"change_percent"`
	MarketValue       *decimal.Decimal `json:"market_value"`
	UnrealizedGain    *decimal.Decimal `json:"unrealized_gain"`
	ReachedSellTarget bool             `json:"reached_sell_target"`
	ReachedBuyTarget  bool             `json:"reached_buy_target"`
	QuotedAt          *time.Time       `json:"quoted_at"`
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func optional(d decimal.Decimal, ok bool) *decimal.Decimal {
	if !ok {
		return nil
	}
	return &d
}

// NewHoldingItem converts a domain holding into its response form.
func NewHoldingItem(h entity.Holding) HoldingItem {
	item := HoldingItem{
		Code:              h.Code,
		Name:              h.Name,
		Number:            h.Number,
		AveragePrice:      h.AveragePrice,
		TargetSellPrice:   nullable(h.TargetSellPrice),
		TargetBuyPrice:    nullable(h.TargetBuyPrice),
		Remarks:           h.Remarks,
		Group:             h.Group,
		MarketValue:       optional(h.MarketValue()),
		UnrealizedGain:    optional(h.UnrealizedGain()),
		ReachedSellTarget: h.ReachedSellTarget(),
		ReachedBuyTarget:  h.ReachedBuyTarget(),
	}
	if h.Quote != nil {
		item.CurrentPrice = nullable(h.Quote.CurrentPrice)
		item.PreviousClose = nullable(h.Quote.PreviousClose)
		item.ChangePercent = optional(h.Quote.ChangePercent())
		quotedAt := h.Quote.UpdatedAt
		item.QuotedAt = &quotedAt
	}
	return item
}
