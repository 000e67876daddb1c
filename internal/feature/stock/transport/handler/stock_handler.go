package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_portfolio/internal/feature/stock/domain/entity"
	"stock_portfolio/internal/feature/stock/transport/http/dto"
)

// StockUsecase は保有銘柄に関するユースケースのインターフェースです。
type StockUsecase interface {
	ListHoldings(ctx context.Context) ([]entity.Holding, error)
}

// StockHandler は保有銘柄に関するHTTPリクエストを処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler は新しい StockHandler を作成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List は保有銘柄の一覧を株価付きで返します。
func (h *StockHandler) List(c *gin.Context) {
	holdings, err := h.uc.ListHoldings(c.Request.Context())
	if err != nil {
		slog.Error("failed to list holdings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list holdings"})
		return
	}
	out := make([]dto.HoldingItem, 0, len(holdings))
	for _, hd := range holdings {
		out = append(out, dto.NewHoldingItem(hd))
	}
	c.JSON(http.StatusOK, out)
}
