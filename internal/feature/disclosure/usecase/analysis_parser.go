package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"stock_portfolio/internal/feature/disclosure/domain"
	"stock_portfolio/internal/feature/disclosure/domain/entity"
)

// stripCodeFence はモデル出力に混ざるMarkdownのコードフェンスを取り除きます。
func stripCodeFence(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ParseAnalysis はモデルの生出力からJSONオブジェクトを取り出し、
// summary / sales_growth / profit_growth の3項目に正規化します。
// 欠けている項目や null はプレースホルダーで埋めます。
func ParseAnalysis(raw string) (entity.Analysis, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return entity.Analysis{}, fmt.Errorf("%w: empty response", domain.ErrInvalidAnalysis)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return entity.Analysis{}, fmt.Errorf("%w: %v", domain.ErrInvalidAnalysis, err)
	}
	if fields == nil {
		return entity.Analysis{}, fmt.Errorf("%w: response is not a JSON object", domain.ErrInvalidAnalysis)
	}

	return entity.Analysis{
		Summary:      fieldString(fields, "summary", entity.SummaryPlaceholder),
		SalesGrowth:  fieldString(fields, "sales_growth", entity.GrowthPlaceholder),
		ProfitGrowth: fieldString(fields, "profit_growth", entity.GrowthPlaceholder),
	}, nil
}

// fieldString は文字列ならそのまま、数値などそれ以外のスカラーはJSON表記で返します。
func fieldString(fields map[string]json.RawMessage, key, def string) string {
	v, ok := fields[key]
	if !ok {
		return def
	}
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return def
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}
