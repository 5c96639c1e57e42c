package repository

import (
	"app/internal/domain/model"
	"context"
)

// 保存・取得を約束
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (model.User, error)

	// 低在庫通知の宛先。店舗のADMINと、全MERCHANT（店舗横断）。
	ListStoreStaff(ctx context.Context, storeID int64) ([]model.User, error)

	// seed用
	Create(ctx context.Context, u model.User) (model.User, error)
}
