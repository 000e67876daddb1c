// Package usecase implements the business logic for portfolio holdings.
package usecase

import (
	"context"

	mdentity "stock_portfolio/internal/feature/marketdata/domain/entity"
	"stock_portfolio/internal/feature/stock/domain/entity"
)

// StockRepository abstracts the persistence layer for held stocks.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type StockRepository interface {
	ListAll(ctx context.Context) ([]entity.Stock, error)
	ListCodes(ctx context.Context) ([]string, error)
	FindByCode(ctx context.Context, code string) (entity.Stock, error)
}

// PriceReader は保存済みの株価を返します。
type PriceReader interface {
	ListAll(ctx context.Context) ([]mdentity.MarketData, error)
}

// StockUsecase provides business logic for holdings.
type StockUsecase struct {
	repo   StockRepository
	prices PriceReader
}

// NewStockUsecase creates a new StockUsecase.
func NewStockUsecase(repo StockRepository, prices PriceReader) *StockUsecase {
	return &StockUsecase{repo: repo, prices: prices}
}

// ListHoldings は銘柄コード順の保有銘柄に、取得済みの株価を付けて返します。
func (u *StockUsecase) ListHoldings(ctx context.Context) ([]entity.Holding, error) {
	stocks, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	prices, err := u.prices.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]mdentity.MarketData, len(prices))
	for _, p := range prices {
		byCode[p.StockCode] = p
	}

	out := make([]entity.Holding, 0, len(stocks))
	for _, s := range stocks {
		h := entity.Holding{Stock: s}
		if p, ok := byCode[s.Code]; ok {
			h.Quote = &p
		}
		out = append(out, h)
	}
	return out, nil
}

// ListCodes は保有銘柄コードの一覧を返します。
func (u *StockUsecase) ListCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListCodes(ctx)
}

// StockName は銘柄コードから銘柄名を返します。
func (u *StockUsecase) StockName(ctx context.Context, code string) (string, error) {
	s, err := u.repo.FindByCode(ctx, code)
	if err != nil {
		return "", err
	}
	return s.Name, nil
}
