// Package handler はdisclosureフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_portfolio/internal/api"
	"stock_portfolio/internal/feature/disclosure/domain"
	"stock_portfolio/internal/feature/disclosure/domain/entity"
	"stock_portfolio/internal/feature/disclosure/transport/http/dto"
	"stock_portfolio/internal/feature/disclosure/usecase"
)

// DisclosureUsecase は開示の参照・登録・再処理のユースケースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type DisclosureUsecase interface {
	Register(ctx context.Context, d entity.Disclosure) (entity.Disclosure, error)
	List(ctx context.Context, filter usecase.ListFilter) ([]entity.Disclosure, error)
	Get(ctx context.Context, id uint) (entity.Disclosure, error)
	Reset(ctx context.Context, id uint) error
}

// DisclosureHandler は開示のHTTPリクエストを処理します。
type DisclosureHandler struct {
	uc DisclosureUsecase
}

// NewDisclosureHandler は新しい DisclosureHandler を作成します。
func NewDisclosureHandler(uc DisclosureUsecase) *DisclosureHandler {
	return &DisclosureHandler{uc: uc}
}

// List は開示の一覧を開示日時の新しい順に返します。
//
// エンドポイント例:
// GET /v1/disclosures?status=DONE&stock_code=7203&limit=50
func (h *DisclosureHandler) List(c *gin.Context) {
	var filter usecase.ListFilter
	if s := c.Query("status"); s != "" {
		status, err := entity.ParseStatus(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid status"})
			return
		}
		filter.Status = &status
	}
	filter.StockCode = c.Query("stock_code")
	if l := c.Query("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid limit"})
			return
		}
		filter.Limit = limit
	}

	items, err := h.uc.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("failed to list disclosures", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list disclosures"})
		return
	}

	out := make([]dto.DisclosureResponse, 0, len(items))
	for _, d := range items {
		out = append(out, dto.NewDisclosureResponse(d))
	}
	c.JSON(http.StatusOK, out)
}

// Get はIDで開示1件を返します。
func (h *DisclosureHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	d, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to get disclosure")
		return
	}
	c.JSON(http.StatusOK, dto.NewDisclosureResponse(d))
}

// Create は外部の収集処理から開示を登録します。
// - バリデーションエラー時は400
// - (銘柄コード, 開示日時, タイトル) の重複時は409
// - 成功時は201と登録内容
func (h *DisclosureHandler) Create(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("disclosure validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	d, err := h.uc.Register(c.Request.Context(), req.ToEntity())
	if err != nil {
		writeError(c, err, "failed to register disclosure")
		return
	}
	slog.Info("disclosure registered", "disclosure_id", d.ID, "stock_code", d.StockCode)
	c.JSON(http.StatusCreated, dto.NewDisclosureResponse(d))
}

// Reset は開示を PENDING に戻し、次回のバッチで再分析されるようにします。
func (h *DisclosureHandler) Reset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.uc.Reset(c.Request.Context(), id); err != nil {
		writeError(c, err, "failed to reset disclosure")
		return
	}
	slog.Info("disclosure reset to pending", "disclosure_id", id)
	c.JSON(http.StatusAccepted, api.MessageResponse{Message: "ok"})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// writeError はドメインエラーをHTTPステータスに対応付けます。
func writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrDisclosureNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidDisclosure):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrDuplicateDisclosure), errors.Is(err, domain.ErrAlreadyPending):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error(msg, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msg})
	}
}
