package notify

import (
	"context"
	"time"

	"app/internal/domain/model"
	"app/internal/push"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 通知の永続化とpush配信をまとめる。
// 永続化はTxの中、pushはコミット後。push失敗は業務処理に波及させない。
type Dispatcher struct {
	bus push.Bus
	log *zap.Logger
}

func NewDispatcher(bus push.Bus, log *zap.Logger) *Dispatcher {
	return &Dispatcher{bus: bus, log: log}
}

// 1リクエスト（1ユニットオブワーク）分の通知。
// Txの中でNotify/FanOutし、コミットが通ったらFlushする。
type Batch struct {
	d      *Dispatcher
	events []push.Event
}

func (d *Dispatcher) NewBatch() *Batch {
	return &Batch{d: d}
}

// 通知行を開いているTxで永続化し、コミット後のpushを予約する。
// userIDがnilなら全体向けブロードキャスト。
func (b *Batch) Notify(ctx context.Context, r repo.TxRepos, userID *int64, message string) error {
	now := time.Now()
	n, err := r.Notifications().Create(ctx, model.Notification{
		UserID:    userID,
		Message:   message,
		IsRead:    false,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	b.events = append(b.events, push.Event{
		ID:             uuid.NewString(),
		Kind:           push.KindNewNotification,
		UserID:         userID,
		NotificationID: n.ID,
		Message:        n.Message,
		At:             n.CreatedAt,
	})
	return nil
}

// 店舗のADMINと全MERCHANTへ同じ文面を1通ずつ。
func (b *Batch) FanOut(ctx context.Context, r repo.TxRepos, storeID int64, message string) error {
	staff, err := r.Users().ListStoreStaff(ctx, storeID)
	if err != nil {
		return err
	}
	for _, u := range staff {
		uid := u.ID
		if err := b.Notify(ctx, r, &uid, message); err != nil {
			return err
		}
	}
	return nil
}

// コミット後に呼ぶ。配信はベストエフォートで、失敗はログだけ残す。
func (b *Batch) Flush(ctx context.Context) {
	for _, ev := range b.events {
		if err := b.d.bus.Publish(ctx, ev); err != nil {
			b.d.log.Warn("push publish failed",
				zap.String("event_id", ev.ID),
				zap.String("kind", string(ev.Kind)),
				zap.Error(err),
			)
		}
	}
	b.events = nil
}

// Tx外の単発イベント（既読化・削除など）もベストエフォートで流す。
func (d *Dispatcher) Publish(ctx context.Context, ev push.Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	if err := d.bus.Publish(ctx, ev); err != nil {
		d.log.Warn("push publish failed",
			zap.String("event_id", ev.ID),
			zap.String("kind", string(ev.Kind)),
			zap.Error(err),
		)
	}
}
