// Package usecase は保有銘柄の株価更新を実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"stock_portfolio/internal/feature/marketdata/domain/entity"
	"stock_portfolio/internal/shared/ratelimiter"
)

// QuoteProvider は外部APIから株価を取得します。
type QuoteProvider interface {
	GetQuote(ctx context.Context, code string) (entity.Quote, error)
}

// MarketDataRepository は market_data テーブルの永続化レイヤーです。
type MarketDataRepository interface {
	Upsert(ctx context.Context, md entity.MarketData) error
	ListAll(ctx context.Context) ([]entity.MarketData, error)
	// ListMissingCodes は保有銘柄のうち株価の行が無い銘柄コードを返します。
	ListMissingCodes(ctx context.Context) ([]string, error)
}

// StockCodeLister は保有銘柄コードの一覧を返します。
type StockCodeLister interface {
	ListCodes(ctx context.Context) ([]string, error)
}

// UpdateReport は株価更新1回分の集計です。
type UpdateReport struct {
	Updated int
	Failed  []string
}

// QuoteUsecase は保有銘柄の株価を取得して保存します。
type QuoteUsecase struct {
	quotes  QuoteProvider
	repo    MarketDataRepository
	stocks  StockCodeLister
	limiter ratelimiter.Limiter
	now     func() time.Time
}

// NewQuoteUsecase は新しい QuoteUsecase を作成します。
func NewQuoteUsecase(quotes QuoteProvider, repo MarketDataRepository, stocks StockCodeLister, limiter ratelimiter.Limiter) *QuoteUsecase {
	return &QuoteUsecase{quotes: quotes, repo: repo, stocks: stocks, limiter: limiter, now: time.Now}
}

// UpdateAll は全保有銘柄の株価を更新します。
func (u *QuoteUsecase) UpdateAll(ctx context.Context) (UpdateReport, error) {
	codes, err := u.stocks.ListCodes(ctx)
	if err != nil {
		return UpdateReport{}, fmt.Errorf("list stock codes: %w", err)
	}
	return u.update(ctx, codes)
}

// UpdateMissing は株価がまだ保存されていない銘柄だけを更新します。
func (u *QuoteUsecase) UpdateMissing(ctx context.Context) (UpdateReport, error) {
	codes, err := u.repo.ListMissingCodes(ctx)
	if err != nil {
		return UpdateReport{}, fmt.Errorf("list missing codes: %w", err)
	}
	return u.update(ctx, codes)
}

// ListAll は保存済みの株価をすべて返します。
func (u *QuoteUsecase) ListAll(ctx context.Context) ([]entity.MarketData, error) {
	return u.repo.ListAll(ctx)
}

func (u *QuoteUsecase) update(ctx context.Context, codes []string) (UpdateReport, error) {
	var report UpdateReport
	for _, code := range codes {
		if err := u.limiter.Wait(ctx); err != nil {
			return report, err
		}
		if err := u.updateOne(ctx, code); err != nil {
			// 1銘柄の失敗で全体を止めない
			slog.Error("failed to update quote", "stock_code", code, "error", err)
			report.Failed = append(report.Failed, code)
			continue
		}
		report.Updated++
	}
	slog.Info("quote update finished", "updated", report.Updated, "failed", len(report.Failed))
	return report, nil
}

func (u *QuoteUsecase) updateOne(ctx context.Context, code string) error {
	q, err := u.quotes.GetQuote(ctx, code)
	if err != nil {
		return err
	}
	return u.repo.Upsert(ctx, entity.MarketData{
		StockCode:     code,
		CurrentPrice:  decimal.NewNullDecimal(q.Close),
		PreviousClose: q.PreviousClose,
		UpdatedAt:     u.now(),
	})
}
