package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type SupplyRequestGormRepository struct {
	db *gorm.DB
}

func NewSupplyRequestGormRepository(db *gorm.DB) *SupplyRequestGormRepository {
	return &SupplyRequestGormRepository{db: db}
}

func (r *SupplyRequestGormRepository) Create(ctx context.Context, sr model.SupplyRequest) (model.SupplyRequest, error) {
	if err := r.db.WithContext(ctx).Create(&sr).Error; err != nil {
		return model.SupplyRequest{}, err
	}
	return sr, nil
}

func (r *SupplyRequestGormRepository) FindByID(ctx context.Context, id int64) (model.SupplyRequest, error) {
	var sr model.SupplyRequest
	err := r.db.WithContext(ctx).First(&sr, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SupplyRequest{}, repo.ErrNotFound
	}
	if err != nil {
		return model.SupplyRequest{}, err
	}
	return sr, nil
}

// 解決時の一括更新。statusのガードはusecase側。
func (r *SupplyRequestGormRepository) Update(ctx context.Context, sr model.SupplyRequest) error {
	res := r.db.WithContext(ctx).Model(&model.SupplyRequest{}).Where("id = ?", sr.ID).Updates(map[string]interface{}{
		"status":         sr.Status,
		"resolved_by":    sr.ResolvedBy,
		"decline_reason": sr.DeclineReason,
		"updated_at":     sr.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SupplyRequestGormRepository) List(ctx context.Context, q repo.SupplyRequestListQuery) ([]model.SupplyRequest, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.SupplyRequest{})

	if q.StoreID != nil {
		tx = tx.Joins("JOIN products ON products.id = supply_requests.product_id").
			Where("products.store_id = ?", *q.StoreID)
	}
	if q.RequestedBy != nil {
		tx = tx.Where("requested_by = ?", *q.RequestedBy)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.SupplyRequest{}, 0, err
	}

	var items []model.SupplyRequest
	offset := (q.Page - 1) * q.Limit
	err := tx.Order("supply_requests.id desc").
		Limit(q.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.SupplyRequest{}, 0, err
	}

	return items, total, nil
}
