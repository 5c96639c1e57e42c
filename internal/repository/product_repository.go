package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 商品の取得と在庫数の書き込みだけを約束。
// 在庫数の変更は台帳（ledger）からしか呼ばれない。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)

	// 行ロック付き取得（SELECT ... FOR UPDATE）。
	// 同一商品への同時の読み書きで差分が消えないように、台帳はこちらを使う。
	FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error)

	SetStock(ctx context.Context, id int64, stock int64) error

	// seed用
	Create(ctx context.Context, p model.Product) (model.Product, error)
}
