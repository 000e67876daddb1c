package usecase

import (
	"fmt"
	"strings"

	"stock_portfolio/internal/feature/disclosure/domain/entity"
)

const (
	// earningsMarker はタイトルに含まれていれば決算短信とみなす文字列です。
	earningsMarker = "決算短信"
	// benefitsMarker はタイトルに含まれていれば株主優待の開示とみなす文字列です。
	benefitsMarker = "株主優待"
)

// StockRef はプロンプトに埋め込む対象銘柄です。Name は不明なら空です。
type StockRef struct {
	Code string
	Name string
}

// Label はプロンプト用の銘柄表記を返します。
func (s StockRef) Label() string {
	if s.Name == "" {
		return s.Code
	}
	return s.Code + " " + s.Name
}

// Prompt は生成モデルに渡す指示文と、その判定種別です。
type Prompt struct {
	Kind entity.Kind
	Text string
}

// Classify はタイトルだけから開示の種類を判定します。
// 判定は決算短信 → 株主優待 → その他の順で、完全一致の部分文字列検索です。
func Classify(title string) entity.Kind {
	switch {
	case strings.Contains(title, earningsMarker):
		return entity.KindEarnings
	case strings.Contains(title, benefitsMarker):
		return entity.KindBenefits
	default:
		return entity.KindOther
	}
}

// BuildPrompt はタイトル・本文・銘柄から種類別のプロンプトを組み立てます。
// 副作用はなく、同じ入力には常に同じ結果を返します。
func BuildPrompt(title, body string, stock StockRef) Prompt {
	kind := Classify(title)
	var tmpl string
	switch kind {
	case entity.KindEarnings:
		tmpl = earningsPromptTemplate
	case entity.KindBenefits:
		tmpl = benefitsPromptTemplate
	case entity.KindOther:
		tmpl = defaultPromptTemplate
	default:
		panic(fmt.Sprintf("unhandled disclosure kind %v", kind))
	}
	return Prompt{Kind: kind, Text: fmt.Sprintf(tmpl, stock.Label(), title, body)}
}

const earningsPromptTemplate = `あなたは証券アナリストです。次の「決算短信」から重要な情報を抽出してください。

対象銘柄: %s
タイトル: %s

次の3項目を抽出し、JSON形式のみで出力してください。

1. summary: 開示内容の要約（日本語、200文字以内）。増収増益などの業績変化や配当の変更点など核心部分。
2. sales_growth: 売上高の増減率（例: "+10.5%%", "△5.2%%"）。記載がなければ "-"
3. profit_growth: 親会社株主に帰属する当期純利益の増減率（例: "+20.0%%"）。記載がなければ "-"

テキスト:
%s
`

const benefitsPromptTemplate = `あなたは証券アナリストです。次の「株主優待」に関する開示から重要な情報を抽出してください。

対象銘柄: %s
タイトル: %s

次の項目を抽出し、JSON形式のみで出力してください。
株主優待の開示のため、売上や利益の増減率は不要です。

1. summary: 優待内容と変更点の要約（日本語、200文字以内）。次の点を必ず含めてください。
   - 変更の種類（新設 / 変更 / 廃止 / 再開）
   - 何がもらえるのか（QUOカード〇〇円分、カタログギフトなど）
   - 対象となる株主（100株以上、保有期間1年以上など）

テキスト:
%s
`

const defaultPromptTemplate = `あなたは証券アナリストです。次の適時開示から重要な情報を抽出してください。

対象銘柄: %s
タイトル: %s

次の項目を抽出し、JSON形式のみで出力してください。

1. summary: 開示内容の要約（日本語、200文字以内）。投資家にどのような影響があるかを簡潔に。

テキスト:
%s
`
