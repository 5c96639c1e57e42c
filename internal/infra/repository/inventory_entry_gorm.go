package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type InventoryEntryGormRepository struct {
	db *gorm.DB
}

func NewInventoryEntryGormRepository(db *gorm.DB) *InventoryEntryGormRepository {
	return &InventoryEntryGormRepository{db: db}
}

func (r *InventoryEntryGormRepository) Create(ctx context.Context, e model.InventoryEntry) (model.InventoryEntry, error) {
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return model.InventoryEntry{}, err
	}
	return e, nil
}

func (r *InventoryEntryGormRepository) FindByID(ctx context.Context, id int64) (model.InventoryEntry, error) {
	var e model.InventoryEntry
	err := r.db.WithContext(ctx).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.InventoryEntry{}, repo.ErrNotFound
	}
	if err != nil {
		return model.InventoryEntry{}, err
	}
	return e, nil
}

func (r *InventoryEntryGormRepository) Update(ctx context.Context, e model.InventoryEntry) error {
	res := r.db.WithContext(ctx).Model(&model.InventoryEntry{}).Where("id = ?", e.ID).Updates(map[string]interface{}{
		"quantity_received": e.QuantityReceived,
		"quantity_spoiled":  e.QuantitySpoiled,
		"buying_price":      e.BuyingPrice,
		"selling_price":     e.SellingPrice,
		"payment_status":    e.PaymentStatus,
		"supplier_id":       e.SupplierID,
		"entry_date":        e.EntryDate,
		"updated_at":        e.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InventoryEntryGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.InventoryEntry{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 店舗スコープはproductsをJOINして絞る。
func (r *InventoryEntryGormRepository) List(ctx context.Context, q repo.EntryListQuery) ([]model.InventoryEntry, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.InventoryEntry{})

	if q.StoreID != nil {
		tx = tx.Joins("JOIN products ON products.id = inventory_entries.product_id").
			Where("products.store_id = ?", *q.StoreID)
	}
	if q.ProductID != nil {
		tx = tx.Where("inventory_entries.product_id = ?", *q.ProductID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.InventoryEntry{}, 0, err
	}

	var items []model.InventoryEntry
	offset := (q.Page - 1) * q.Limit
	err := tx.Order("inventory_entries.id desc").
		Limit(q.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.InventoryEntry{}, 0, err
	}

	return items, total, nil
}
