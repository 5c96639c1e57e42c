package push

import (
	"context"
	"time"
)

// 配信イベントの種類。
type Kind string

const (
	KindNewNotification      Kind = "new_notification"
	KindNotificationUpdated  Kind = "notification_updated"
	KindNotificationsUpdated Kind = "notifications_updated"
	KindNotificationDeleted  Kind = "notification_deleted"
)

// ライブ接続へ流すイベント。UserIDがnilなら全員向け。
type Event struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	UserID         *int64    `json:"user_id,omitempty"`
	NotificationID int64     `json:"notification_id,omitempty"`
	Message        string    `json:"message,omitempty"`
	Count          int64     `json:"count,omitempty"`
	At             time.Time `json:"at"`
}

// push配信のport。配信はベストエフォートで、失敗しても
// 永続化済みの通知や業務処理を巻き戻さない。
type Bus interface {
	Publish(ctx context.Context, ev Event) error

	// userID宛＋ブロードキャストの購読。cancelで購読を解除する。
	Subscribe(ctx context.Context, userID int64) (<-chan Event, func(), error)
}
