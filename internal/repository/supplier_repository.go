package repository

import (
	"app/internal/domain/model"
	"context"
)

// 仕入先の存在チェック用。
type SupplierRepository interface {
	FindByID(ctx context.Context, id int64) (model.Supplier, error)

	// seed用
	Create(ctx context.Context, s model.Supplier) (model.Supplier, error)
}
