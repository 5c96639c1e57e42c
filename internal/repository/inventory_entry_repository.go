package repository

import (
	"app/internal/domain/model"
	"context"
)

// 一覧検索
type EntryListQuery struct {
	Page      int
	Limit     int
	StoreID   *int64
	ProductID *int64
}

// 在庫エントリの永続化だけを約束。
// 在庫数の整合は呼び出し側（usecase + ledger）が守る。
type InventoryEntryRepository interface {
	Create(ctx context.Context, e model.InventoryEntry) (model.InventoryEntry, error)
	FindByID(ctx context.Context, id int64) (model.InventoryEntry, error)
	Update(ctx context.Context, e model.InventoryEntry) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q EntryListQuery) ([]model.InventoryEntry, int64, error)
}
