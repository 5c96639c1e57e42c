package repository

import (
	"app/internal/domain/model"
	"context"
)

// 一覧検索（所有者スコープはusecaseでuserIDを渡す）
type NotificationListQuery struct {
	Page   int
	Limit  int
	IsRead *bool
}

// 通知の永続化を約束。
type NotificationRepository interface {
	Create(ctx context.Context, n model.Notification) (model.Notification, error)
	FindByID(ctx context.Context, id int64) (model.Notification, error)

	// 本人宛＋ブロードキャスト（user_id IS NULL）を新しい順で返す。
	ListByUser(ctx context.Context, userID int64, q NotificationListQuery) ([]model.Notification, int64, error)

	MarkRead(ctx context.Context, id int64) error

	// 本人の未読を全部既読にして件数を返す。0件でもエラーにしない。
	MarkAllRead(ctx context.Context, userID int64) (int64, error)

	Delete(ctx context.Context, id int64) error
}
