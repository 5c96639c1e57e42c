package notify

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/push"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Notify/FanOutが触るのはNotifications()とUsers()だけ。
type stubTxRepos struct {
	notifications *stubNotificationRepo
	staff         []model.User
}

func (r *stubTxRepos) Products() repo.ProductRepository              { return nil }
func (r *stubTxRepos) Entries() repo.InventoryEntryRepository       { return nil }
func (r *stubTxRepos) SupplyRequests() repo.SupplyRequestRepository { return nil }
func (r *stubTxRepos) Notifications() repo.NotificationRepository   { return r.notifications }
func (r *stubTxRepos) Users() repo.UserRepository                   { return stubUserRepo{staff: r.staff} }
func (r *stubTxRepos) Suppliers() repo.SupplierRepository           { return nil }
func (r *stubTxRepos) AuditLogs() repo.AuditLogRepository           { return nil }

type stubNotificationRepo struct {
	seq  int64
	rows []model.Notification
}

func (r *stubNotificationRepo) Create(_ context.Context, n model.Notification) (model.Notification, error) {
	r.seq++
	n.ID = r.seq
	r.rows = append(r.rows, n)
	return n, nil
}

func (r *stubNotificationRepo) FindByID(context.Context, int64) (model.Notification, error) {
	return model.Notification{}, repo.ErrNotFound
}

func (r *stubNotificationRepo) ListByUser(context.Context, int64, repo.NotificationListQuery) ([]model.Notification, int64, error) {
	return nil, 0, nil
}

func (r *stubNotificationRepo) MarkRead(context.Context, int64) error { return nil }

func (r *stubNotificationRepo) MarkAllRead(context.Context, int64) (int64, error) { return 0, nil }

func (r *stubNotificationRepo) Delete(context.Context, int64) error { return nil }

type stubUserRepo struct {
	staff []model.User
}

func (r stubUserRepo) FindByID(context.Context, int64) (model.User, error) {
	return model.User{}, repo.ErrNotFound
}

func (r stubUserRepo) ListStoreStaff(context.Context, int64) ([]model.User, error) {
	return r.staff, nil
}

func (r stubUserRepo) Create(_ context.Context, u model.User) (model.User, error) {
	return u, nil
}

func TestBatchNotifyPersistsThenFlushPublishes(t *testing.T) {
	ctx := context.Background()
	bus := push.NewMemoryBus()
	d := NewDispatcher(bus, zap.NewNop())

	repos := &stubTxRepos{notifications: &stubNotificationRepo{}}
	uid := int64(7)

	events, cancel, err := bus.Subscribe(ctx, uid)
	require.NoError(t, err)
	defer cancel()

	batch := d.NewBatch()
	require.NoError(t, batch.Notify(ctx, repos, &uid, "hello"))

	//行は先に永続化される
	require.Len(t, repos.notifications.rows, 1)
	assert.Equal(t, "hello", repos.notifications.rows[0].Message)
	assert.False(t, repos.notifications.rows[0].IsRead)

	//Flushまでは配信されない
	select {
	case <-events:
		t.Fatal("event must not be published before Flush")
	default:
	}

	batch.Flush(ctx)

	select {
	case ev := <-events:
		assert.Equal(t, push.KindNewNotification, ev.Kind)
		assert.Equal(t, repos.notifications.rows[0].ID, ev.NotificationID)
		assert.NotEmpty(t, ev.ID)
		assert.False(t, ev.At.IsZero())
	default:
		t.Fatal("expected an event after Flush")
	}
}

func TestBatchFanOutNotifiesEachStaffOnce(t *testing.T) {
	ctx := context.Background()
	bus := push.NewMemoryBus()
	d := NewDispatcher(bus, zap.NewNop())

	storeID := int64(1)
	repos := &stubTxRepos{
		notifications: &stubNotificationRepo{},
		staff: []model.User{
			{ID: 10, Role: model.RoleAdmin, StoreID: &storeID},
			{ID: 11, Role: model.RoleMerchant},
		},
	}

	batch := d.NewBatch()
	require.NoError(t, batch.FanOut(ctx, repos, storeID, "low stock"))

	require.Len(t, repos.notifications.rows, 2)
	recipients := map[int64]bool{}
	for _, n := range repos.notifications.rows {
		require.NotNil(t, n.UserID)
		recipients[*n.UserID] = true
		assert.Equal(t, "low stock", n.Message)
	}
	assert.True(t, recipients[10])
	assert.True(t, recipients[11])
}

func TestDispatcherPublishFillsDefaults(t *testing.T) {
	ctx := context.Background()
	bus := push.NewMemoryBus()
	d := NewDispatcher(bus, zap.NewNop())

	uid := int64(3)
	events, cancel, err := bus.Subscribe(ctx, uid)
	require.NoError(t, err)
	defer cancel()

	d.Publish(ctx, push.Event{Kind: push.KindNotificationDeleted, UserID: &uid, NotificationID: 42})

	select {
	case ev := <-events:
		assert.NotEmpty(t, ev.ID)
		assert.False(t, ev.At.IsZero())
		assert.Equal(t, int64(42), ev.NotificationID)
	default:
		t.Fatal("expected an event")
	}
}
