// Package document は開示PDFを取得して先頭ページのテキストを取り出します。
package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"stock_portfolio/internal/feature/disclosure/domain"
	"stock_portfolio/internal/feature/disclosure/usecase"
	httpclient "stock_portfolio/internal/platform/http"
	"stock_portfolio/internal/shared/envconfig"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxPages = 2
	// maxBodyBytes を超えるPDFは読み込みません。
	maxBodyBytes = 32 << 20
	userAgent    = "Mozilla/5.0 (compatible; stock-portfolio-batch/1.0)"
)

// Config はPDF取得の設定です。
type Config struct {
	Timeout  time.Duration
	MaxPages int
}

// LoadConfig は PDF_FETCH_TIMEOUT / PDF_MAX_PAGES を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		Timeout:  envconfig.Duration("PDF_FETCH_TIMEOUT", DefaultTimeout),
		MaxPages: envconfig.Int("PDF_MAX_PAGES", DefaultMaxPages),
	}
	if cfg.MaxPages < 1 {
		cfg.MaxPages = DefaultMaxPages
	}
	return cfg
}

// Fetcher はHTTPでPDFを取得し、先頭 MaxPages ページのテキストを連結して返します。
type Fetcher struct {
	client   *http.Client
	maxPages int
}

var _ usecase.DocumentFetcher = (*Fetcher)(nil)

func NewFetcher(cfg Config) *Fetcher {
	return NewFetcherWithClient(
		httpclient.NewHTTPClient(cfg.Timeout,
			httpclient.WithUserAgent(userAgent),
			httpclient.WithAccept("application/pdf"),
		),
		cfg.MaxPages,
	)
}

func NewFetcherWithClient(client *http.Client, maxPages int) *Fetcher {
	if maxPages < 1 {
		maxPages = DefaultMaxPages
	}
	return &Fetcher{client: client, maxPages: maxPages}
}

// FetchText は取得・解析の失敗をすべて domain.ErrDocumentUnavailable でラップして返します。
// テキストが抽出できなかった場合は空文字列とnilを返します。
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	body, err := f.download(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDocumentUnavailable, err)
	}
	text, err := f.extract(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDocumentUnavailable, err)
	}
	return text, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request pdf: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pdf download failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read pdf body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("pdf exceeds %d bytes", maxBodyBytes)
	}
	return body, nil
}

// extract は先頭 maxPages ページのテキストを改行区切りで連結します。
func (f *Fetcher) extract(body []byte) (text string, err error) {
	// 壊れたPDFでパーサーがpanicすることがある
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := r.NumPage()
	if pages > f.maxPages {
		pages = f.maxPages
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		t, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("failed to extract pdf page text", "page", i, "error", err)
			continue
		}
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}
