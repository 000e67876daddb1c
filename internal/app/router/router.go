package router

import (
	"github.com/gin-gonic/gin"

	dischandler "stock_portfolio/internal/feature/disclosure/transport/handler"
	stockhandler "stock_portfolio/internal/feature/stock/transport/handler"
	platformhandler "stock_portfolio/internal/platform/http/handler"
	jwtmw "stock_portfolio/internal/platform/jwt"
)

// NewRouter はダッシュボード向けの参照 API と、JWT で保護された管理 API を登録します。
func NewRouter(pinger platformhandler.Pinger, stocks *stockhandler.StockHandler,
	disclosures *dischandler.DisclosureHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 導通確認用
	health := platformhandler.Health(pinger)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	v1 := r.Group("/v1")
	{
		v1.GET("/stocks", stocks.List)
		v1.GET("/disclosures", disclosures.List)
		v1.GET("/disclosures/:id", disclosures.Get)
	}

	// 書き込みは外部の収集ジョブと運用者のみ
	admin := v1.Group("")
	admin.Use(jwtmw.AuthRequired())
	{
		admin.POST("/disclosures", disclosures.Create)
		admin.POST("/disclosures/:id/reset", disclosures.Reset)
	}

	return r
}
