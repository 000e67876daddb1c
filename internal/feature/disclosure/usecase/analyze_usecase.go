// Package usecase はdisclosureフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"stock_portfolio/internal/feature/disclosure/domain/entity"
)

// DocumentFetcher はURLのPDFから先頭数ページのテキストを取り出します。
// 取得・解析に失敗した場合は domain.ErrDocumentUnavailable を包んだエラーを返し、
// PDFは読めたがテキストが無い場合は ("", nil) を返します。
type DocumentFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// TextGenerator はプロンプトから生成モデルの出力テキストを得ます。
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OutcomeWriter は1件分の処理結果を1つのトランザクションで書き込みます。
type OutcomeWriter interface {
	ApplyOutcome(ctx context.Context, id uint, outcome entity.Outcome) error
}

// StockNameResolver は銘柄コードから銘柄名を引きます。見つからなければ空文字を返します。
type StockNameResolver interface {
	StockName(ctx context.Context, code string) (string, error)
}

// AnalyzeUsecase は開示1件を PENDING から終端状態へ遷移させます。
type AnalyzeUsecase struct {
	fetcher   DocumentFetcher
	generator TextGenerator
	writer    OutcomeWriter
	stocks    StockNameResolver
}

// NewAnalyzeUsecase はAnalyzeUsecaseを生成します。stocks は nil でも構いません。
func NewAnalyzeUsecase(fetcher DocumentFetcher, generator TextGenerator, writer OutcomeWriter, stocks StockNameResolver) *AnalyzeUsecase {
	return &AnalyzeUsecase{fetcher: fetcher, generator: generator, writer: writer, stocks: stocks}
}

// Process は開示を分析し、結果を1回だけ書き込みます。
// 取得・生成・解析の失敗は ERROR の Outcome として書き込まれ、エラーにはなりません。
// 返すエラーは書き込み自体の失敗のみです。
func (u *AnalyzeUsecase) Process(ctx context.Context, d entity.Disclosure) (entity.Outcome, error) {
	outcome := u.Analyze(ctx, d)
	if err := u.writer.ApplyOutcome(ctx, d.ID, outcome); err != nil {
		return outcome, fmt.Errorf("persist outcome for disclosure %d: %w", d.ID, err)
	}
	slog.Info("disclosure processed",
		"disclosure_id", d.ID, "stock_code", d.StockCode, "status", outcome.Status.String(), "reason", outcome.Reason)
	return outcome, nil
}

// Analyze は永続化を行わずに遷移先を決定します。
func (u *AnalyzeUsecase) Analyze(ctx context.Context, d entity.Disclosure) entity.Outcome {
	if !d.HasPDF() {
		slog.Info("skipping analysis: no pdf url", "disclosure_id", d.ID, "title", d.Title)
		return entity.NoPDFOutcome()
	}

	text, err := u.fetcher.FetchText(ctx, d.PDFURL)
	if err != nil {
		slog.Warn("failed to extract pdf text", "disclosure_id", d.ID, "url", d.PDFURL, "error", err)
		return entity.ErrorOutcome("document unavailable")
	}
	if strings.TrimSpace(text) == "" {
		slog.Warn("pdf contained no text", "disclosure_id", d.ID, "url", d.PDFURL)
		return entity.ErrorOutcome("document has no text")
	}

	prompt := BuildPrompt(d.Title, text, u.stockRef(ctx, d.StockCode))
	raw, err := u.generator.Generate(ctx, prompt.Text)
	if err != nil {
		slog.Error("text generation failed", "disclosure_id", d.ID, "kind", prompt.Kind.String(), "error", err)
		return entity.ErrorOutcome("generation failed")
	}

	analysis, err := ParseAnalysis(raw)
	if err != nil {
		slog.Error("failed to parse analysis", "disclosure_id", d.ID, "kind", prompt.Kind.String(), "error", err)
		return entity.ErrorOutcome("unparseable response")
	}
	return entity.DoneOutcome(analysis)
}

// stockRef は銘柄名を補完します。引けなくても処理は続けます。
func (u *AnalyzeUsecase) stockRef(ctx context.Context, code string) StockRef {
	ref := StockRef{Code: code}
	if u.stocks == nil {
		return ref
	}
	name, err := u.stocks.StockName(ctx, code)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Warn("stock name lookup failed", "stock_code", code, "error", err)
		}
		return ref
	}
	ref.Name = name
	return ref
}

