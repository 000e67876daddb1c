// Package gemini はGemini APIで開示の要約を生成するクライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"stock_portfolio/internal/feature/disclosure/domain"
	"stock_portfolio/internal/feature/disclosure/usecase"
	"stock_portfolio/internal/shared/envconfig"
)

const (
	// DefaultModel は高速・低コストのモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// Config はGeminiクライアントの設定です。
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration // 0 なら呼び出し元の ctx に任せる
	// RequestsPerMinute はAPI呼び出しの上限です。0 なら制限しません。
	RequestsPerMinute int
	BaseURL           string // テスト用。空なら既定のエンドポイント
}

// LoadConfig は GEMINI_* の環境変数を読み込みます。
// APIキーが無い場合は domain.ErrMissingAPIKey を返します。
func LoadConfig() (Config, error) {
	key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if key == "" {
		return Config{}, domain.ErrMissingAPIKey
	}
	return Config{
		APIKey:            key,
		Model:             envconfig.String("GEMINI_MODEL", DefaultModel),
		Timeout:           envconfig.Duration("GEMINI_TIMEOUT", 0),
		RequestsPerMinute: envconfig.Int("GEMINI_RPM", 0),
	}, nil
}

// Generator はプロンプトからテキストを生成します。
type Generator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter // nil なら制限なし
}

// GeneratorがTextGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.TextGenerator = (*Generator)(nil)

// NewGenerator はAPIキー認証のGeminiクライアントを生成します。
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingAPIKey
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	g := &Generator{client: client, model: model, timeout: cfg.Timeout}
	if cfg.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	return g, nil
}

// Generate はプロンプトを送り、応答のテキストをそのまま返します。
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}
