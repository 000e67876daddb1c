// Package domain はstockフィーチャーのドメインエラーを定義します。
package domain

import "errors"

// ErrStockNotFound は指定した銘柄コードが保有銘柄に無いことを示します。
var ErrStockNotFound = errors.New("stock not found")
