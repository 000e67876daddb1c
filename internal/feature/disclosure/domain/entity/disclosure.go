// Package entity はdisclosureフィーチャーのドメインモデルを定義します。
package entity

import "time"

const (
	// GrowthPlaceholder は増減率が記載なし・対象外のときの値です。
	GrowthPlaceholder = "-"
	// SummaryPlaceholder はモデル出力に summary が無かったときの要約です。
	SummaryPlaceholder = "要約できませんでした"
	// NoPDFSummary はPDFのURLが無い開示に設定する要約です。
	NoPDFSummary = "PDFを取得できませんでした。"
)

// Disclosure は保有銘柄の適時開示1件と、そのAI分析結果を表します。
// (StockCode, AnnouncedAt, Title) の組は一意です。
type Disclosure struct {
	ID           uint
	StockCode    string    // 銘柄コード（例: "7203"）
	AnnouncedAt  time.Time // 開示日時
	Title        string
	PDFURL       string // 空ならPDFなし
	WebURL       string
	Summary      *string // 分析前は nil
	SalesGrowth  string  // 売上高の増減率（例: "+10.5%"）
	ProfitGrowth string  // 純利益の増減率
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPDF はPDFのURLが設定されているかを返します。
func (d Disclosure) HasPDF() bool {
	return d.PDFURL != ""
}

// NewPending は外部の収集処理が登録する、未分析の開示を生成します。
func NewPending(stockCode string, announcedAt time.Time, title, pdfURL, webURL string) Disclosure {
	return Disclosure{
		StockCode:    stockCode,
		AnnouncedAt:  announcedAt,
		Title:        title,
		PDFURL:       pdfURL,
		WebURL:       webURL,
		SalesGrowth:  GrowthPlaceholder,
		ProfitGrowth: GrowthPlaceholder,
		Status:       StatusPending,
	}
}
