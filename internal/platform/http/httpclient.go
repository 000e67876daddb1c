// Package http は外部呼び出し用のHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// Option はNewHTTPClientの追加設定です。
type Option func(*clientOptions)

type clientOptions struct {
	userAgent string
	accept    string
}

// WithUserAgent は全リクエストに User-Agent ヘッダーを付与します。
// 適時開示のPDF配信元はUser-Agentのないリクエストを拒否することがあります。
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) { o.userAgent = ua }
}

// WithAccept は全リクエストに Accept ヘッダーを付与します。
func WithAccept(accept string) Option {
	return func(o *clientOptions) { o.accept = accept }
}

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト
//   - MaxIdleConns / IdleConnTimeout: 接続の再利用
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//
// 注意: http.DefaultClientにはタイムアウトがないため使用しないこと。
func NewHTTPClient(timeout time.Duration, opts ...Option) *http.Client {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	var rt http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	if o.userAgent != "" || o.accept != "" {
		rt = &headerTransport{base: rt, userAgent: o.userAgent, accept: o.accept}
	}
	return &http.Client{Timeout: timeout, Transport: rt}
}

// headerTransport は既定ヘッダーを補完するRoundTripperです。
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
	accept    string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.userAgent != "" && r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.userAgent)
	}
	if t.accept != "" && r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", t.accept)
	}
	return t.base.RoundTrip(r)
}
