package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	if err := r.db.WithContext(ctx).Create(&n).Error; err != nil {
		return model.Notification{}, err
	}
	return n, nil
}

func (r *NotificationGormRepository) FindByID(ctx context.Context, id int64) (model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).First(&n, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Notification{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Notification{}, err
	}
	return n, nil
}

// 本人宛＋ブロードキャストを新しい順で返す。
func (r *NotificationGormRepository) ListByUser(ctx context.Context, userID int64, q repo.NotificationListQuery) ([]model.Notification, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? OR user_id IS NULL", userID)

	if q.IsRead != nil {
		tx = tx.Where("is_read = ?", *q.IsRead)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Notification{}, 0, err
	}

	var items []model.Notification
	offset := (q.Page - 1) * q.Limit
	err := tx.Order("id desc").
		Limit(q.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Notification{}, 0, err
	}

	return items, total, nil
}

func (r *NotificationGormRepository) MarkRead(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 未読だけを既読化して件数を返す。
func (r *NotificationGormRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *NotificationGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
