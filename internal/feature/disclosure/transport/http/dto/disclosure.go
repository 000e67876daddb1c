// Package dto defines data transfer objects for the disclosure HTTP API.
package dto

import (
	"time"

	"stock_portfolio/internal/feature/disclosure/domain/entity"
)

// DisclosureResponse は開示1件とその分析結果です。
type DisclosureResponse struct {
	ID           uint      `json:"id"`
	StockCode    string    `json:"stock_code"`
	AnnouncedAt  time.Time `json:"announced_at"`
	Title        string    `json:"title"`
	PDFURL       *string   `json:"pdf_url"`
	WebURL       *string   `json:"web_url"`
	Summary      *string   `json:"summary"`
	SalesGrowth  string    `json:"sales_growth"`
	ProfitGrowth string    `json:"profit_growth"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NewDisclosureResponse はエンティティをレスポンスに変換します。
func NewDisclosureResponse(d entity.Disclosure) DisclosureResponse {
	return DisclosureResponse{
		ID:           d.ID,
		StockCode:    d.StockCode,
		AnnouncedAt:  d.AnnouncedAt,
		Title:        d.Title,
		PDFURL:       optional(d.PDFURL),
		WebURL:       optional(d.WebURL),
		Summary:      d.Summary,
		SalesGrowth:  d.SalesGrowth,
		ProfitGrowth: d.ProfitGrowth,
		Status:       d.Status.String(),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// RegisterRequest は外部の収集処理が送る開示の登録リクエストです。
type RegisterRequest struct {
	StockCode   string    `json:"stock_code" binding:"required,max=10"`
	AnnouncedAt time.Time `json:"announced_at" binding:"required"`
	Title       string    `json:"title" binding:"required,max=255"`
	PDFURL      string    `json:"pdf_url" binding:"omitempty,url"`
	WebURL      string    `json:"web_url" binding:"omitempty,url"`
}

// ToEntity はリクエストをエンティティに変換します。
func (r RegisterRequest) ToEntity() entity.Disclosure {
	return entity.Disclosure{
		StockCode:   r.StockCode,
		AnnouncedAt: r.AnnouncedAt,
		Title:       r.Title,
		PDFURL:      r.PDFURL,
		WebURL:      r.WebURL,
	}
}
