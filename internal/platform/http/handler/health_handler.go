// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger は依存先（DBなど）の疎通確認を行います。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// pingTimeout はヘルスチェック1回あたりの疎通確認の上限時間です。
const pingTimeout = 2 * time.Second

// Health は /healthz エンドポイントのハンドラーを返します。
// pinger が nil の場合はプロセスの生存のみを報告します。
func Health(pinger Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		status, body := http.StatusOK, gin.H{"status": "ok"}
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			if err := pinger.PingContext(ctx); err != nil {
				slog.Warn("health check: database unreachable", "error", err)
				status, body = http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"}
			}
		}

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(status)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(status, body)
		}
	}
}
