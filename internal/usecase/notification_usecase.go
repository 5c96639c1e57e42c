package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	"app/internal/notify"
	"app/internal/push"
	repo "app/internal/repository"
)

// 通知フィード。一覧・既読化・削除はすべて本人スコープ。
// 作成側（台帳・ワークフロー）はdispatcherのBatch経由で、ここは読む側。
type NotificationUsecase struct {
	notifications repo.NotificationRepository
	dispatcher    *notify.Dispatcher
}

func NewNotificationUsecase(notifications repo.NotificationRepository, d *notify.Dispatcher) *NotificationUsecase {
	return &NotificationUsecase{notifications: notifications, dispatcher: d}
}

type ListNotificationsInput struct {
	Page   int
	Limit  int
	IsRead *bool
}

type NotificationListOutput struct {
	Items []model.Notification `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

func (u *NotificationUsecase) List(ctx context.Context, actor Actor, in ListNotificationsInput) (NotificationListOutput, error) {
	if actor.ID <= 0 {
		return NotificationListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Page < 1 {
		return NotificationListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return NotificationListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.notifications.ListByUser(ctx, actor.ID, repo.NotificationListQuery{
		Page:   in.Page,
		Limit:  in.Limit,
		IsRead: in.IsRead,
	})
	if err != nil {
		return NotificationListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return NotificationListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// 本人の通知か。ブロードキャスト（user_id NULL）は誰のものでもないので書き換え不可。
func ownedBy(n model.Notification, userID int64) bool {
	return n.UserID != nil && *n.UserID == userID
}

func (u *NotificationUsecase) MarkRead(ctx context.Context, actor Actor, notificationID int64) (model.Notification, error) {
	if actor.ID <= 0 {
		return model.Notification{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if notificationID <= 0 {
		return model.Notification{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	n, err := u.notifications.FindByID(ctx, notificationID)
	if err == repo.ErrNotFound {
		return model.Notification{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Notification{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ownedBy(n, actor.ID) {
		return model.Notification{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	if err := u.notifications.MarkRead(ctx, n.ID); err != nil {
		if err == repo.ErrNotFound {
			return model.Notification{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Notification{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	n.IsRead = true

	uid := actor.ID
	u.dispatcher.Publish(ctx, push.Event{
		Kind:           push.KindNotificationUpdated,
		UserID:         &uid,
		NotificationID: n.ID,
		Message:        n.Message,
	})

	return n, nil
}

// 未読全部を既読化して件数を返す。0件でもエラーではない。
func (u *NotificationUsecase) MarkAllRead(ctx context.Context, actor Actor) (int64, error) {
	if actor.ID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	count, err := u.notifications.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if count > 0 {
		uid := actor.ID
		u.dispatcher.Publish(ctx, push.Event{
			Kind:   push.KindNotificationsUpdated,
			UserID: &uid,
			Count:  count,
		})
	}

	return count, nil
}

func (u *NotificationUsecase) Delete(ctx context.Context, actor Actor, notificationID int64) error {
	if actor.ID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if notificationID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	n, err := u.notifications.FindByID(ctx, notificationID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ownedBy(n, actor.ID) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	if err := u.notifications.Delete(ctx, n.ID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	uid := actor.ID
	u.dispatcher.Publish(ctx, push.Event{
		Kind:           push.KindNotificationDeleted,
		UserID:         &uid,
		NotificationID: n.ID,
	})

	return nil
}
