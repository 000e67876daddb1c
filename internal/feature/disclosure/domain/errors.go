// Package domain はdisclosureフィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	// ErrNoPendingDisclosure は未処理（PENDING）の開示が存在しないことを示します。
	ErrNoPendingDisclosure = errors.New("no pending disclosure")
	// ErrDisclosureNotFound は指定IDの開示が存在しないことを示します。
	ErrDisclosureNotFound = errors.New("disclosure not found")
	// ErrDuplicateDisclosure は（銘柄コード, 開示日時, タイトル）が重複していることを示します。
	ErrDuplicateDisclosure = errors.New("disclosure already registered")
	// ErrInvalidDisclosure は登録しようとした開示の必須項目が欠けていることを示します。
	ErrInvalidDisclosure = errors.New("invalid disclosure")
	// ErrAlreadyPending はPENDINGの開示をリセットしようとしたことを示します。
	ErrAlreadyPending = errors.New("disclosure is already pending")
	// ErrDocumentUnavailable はPDFの取得または解析に失敗したことを示します。
	ErrDocumentUnavailable = errors.New("document unavailable")
	// ErrInvalidAnalysis はモデル出力から結果JSONを取り出せなかったことを示します。
	ErrInvalidAnalysis = errors.New("invalid analysis response")
	// ErrMissingAPIKey は生成モデルのAPIキーが設定されていないことを示します。
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")
)
