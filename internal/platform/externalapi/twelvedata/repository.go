package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"stock_portfolio/internal/feature/marketdata/domain/entity"
	"stock_portfolio/internal/feature/marketdata/usecase"
	"stock_portfolio/internal/platform/externalapi/twelvedata/dto"
)

// QuoteClient はTwelve Data外部APIから現在値を取得するQuoteProvider実装です。
type QuoteClient struct {
	cfg    Config
	client *http.Client
}

// QuoteClientがQuoteProviderを実装していることをコンパイル時に検証します。
var _ usecase.QuoteProvider = (*QuoteClient)(nil)

// NewQuoteClient は指定された設定とHTTPクライアントでQuoteClientの新しいインスタンスを生成します。
func NewQuoteClient(cfg Config, client *http.Client) *QuoteClient {
	return &QuoteClient{cfg: cfg, client: client}
}

// GetQuote は銘柄コードの現在値と前日終値を取得します。
func (t *QuoteClient) GetQuote(ctx context.Context, code string) (entity.Quote, error) {
	q := url.Values{}
	q.Set("symbol", code)
	if t.cfg.Exchange != "" {
		q.Set("mic_code", t.cfg.Exchange)
	}
	q.Set("apikey", t.cfg.TwelveDataAPIKey)

	u := fmt.Sprintf("%s/quote?%s", t.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.Quote{}, err
	}

	res, err := t.client.Do(req)
	if err != nil {
		return entity.Quote{}, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return entity.Quote{}, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body dto.QuoteResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return entity.Quote{}, err
	}
	// エラーでもHTTP 200で返ってくる
	if body.Status == "error" {
		return entity.Quote{}, fmt.Errorf("twelvedata: %s", body.Message)
	}

	closePrice, err := decimal.NewFromString(body.Close)
	if err != nil {
		return entity.Quote{}, fmt.Errorf("parse close %q: %w", body.Close, err)
	}
	quote := entity.Quote{Close: closePrice}
	if body.PreviousClose != "" {
		prev, err := decimal.NewFromString(body.PreviousClose)
		if err != nil {
			return entity.Quote{}, fmt.Errorf("parse previous_close %q: %w", body.PreviousClose, err)
		}
		quote.PreviousClose = decimal.NewNullDecimal(prev)
	}
	return quote, nil
}
