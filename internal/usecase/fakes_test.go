package usecase

import (
	"context"
	"sort"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// インメモリのTxRepos。WithinTxはスナップショットを取り、
// fnがエラーを返したら巻き戻す（DBのrollback相当）。
type fakeStore struct {
	seq           int64
	products      map[int64]model.Product
	entries       map[int64]model.InventoryEntry
	requests      map[int64]model.SupplyRequest
	notifications map[int64]model.Notification
	users         map[int64]model.User
	suppliers     map[int64]model.Supplier
	auditLogs     []model.AuditLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:      map[int64]model.Product{},
		entries:       map[int64]model.InventoryEntry{},
		requests:      map[int64]model.SupplyRequest{},
		notifications: map[int64]model.Notification{},
		users:         map[int64]model.User{},
		suppliers:     map[int64]model.Supplier{},
	}
}

func (s *fakeStore) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *fakeStore) snapshot() *fakeStore {
	c := newFakeStore()
	c.seq = s.seq
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	c.auditLogs = append([]model.AuditLog(nil), s.auditLogs...)
	return c
}

func (s *fakeStore) restore(from *fakeStore) {
	s.seq = from.seq
	s.products = from.products
	s.entries = from.entries
	s.requests = from.requests
	s.notifications = from.notifications
	s.users = from.users
	s.suppliers = from.suppliers
	s.auditLogs = from.auditLogs
}

// seedヘルパー
func (s *fakeStore) addProduct(p model.Product) model.Product {
	p.ID = s.nextID()
	s.products[p.ID] = p
	return p
}

func (s *fakeStore) addUser(u model.User) model.User {
	u.ID = s.nextID()
	u.IsActive = true
	s.users[u.ID] = u
	return u
}

func (s *fakeStore) addSupplier(sp model.Supplier) model.Supplier {
	sp.ID = s.nextID()
	s.suppliers[sp.ID] = sp
	return sp
}

func (s *fakeStore) addNotification(n model.Notification) model.Notification {
	n.ID = s.nextID()
	s.notifications[n.ID] = n
	return n
}

func (s *fakeStore) addRequest(sr model.SupplyRequest) model.SupplyRequest {
	sr.ID = s.nextID()
	s.requests[sr.ID] = sr
	return sr
}

// 宛先ユーザーIDごとの通知件数。FanOutの検証用。
func (s *fakeStore) notificationsByUser() map[int64][]model.Notification {
	out := map[int64][]model.Notification{}
	for _, n := range s.notifications {
		if n.UserID == nil {
			continue
		}
		out[*n.UserID] = append(out[*n.UserID], n)
	}
	return out
}

type fakeTxManager struct {
	store *fakeStore
}

func newFakeTxManager(store *fakeStore) *fakeTxManager {
	return &fakeTxManager{store: store}
}

func (m *fakeTxManager) WithinTx(_ context.Context, fn func(r repo.TxRepos) error) error {
	snap := m.store.snapshot()
	if err := fn(fakeTxRepos{store: m.store}); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type fakeTxRepos struct {
	store *fakeStore
}

func (r fakeTxRepos) Products() repo.ProductRepository             { return fakeProductRepo{r.store} }
func (r fakeTxRepos) Entries() repo.InventoryEntryRepository      { return fakeEntryRepo{r.store} }
func (r fakeTxRepos) SupplyRequests() repo.SupplyRequestRepository { return fakeRequestRepo{r.store} }
func (r fakeTxRepos) Notifications() repo.NotificationRepository  { return fakeNotificationRepo{r.store} }
func (r fakeTxRepos) Users() repo.UserRepository                  { return fakeUserRepo{r.store} }
func (r fakeTxRepos) Suppliers() repo.SupplierRepository          { return fakeSupplierRepo{r.store} }
func (r fakeTxRepos) AuditLogs() repo.AuditLogRepository          { return fakeAuditLogRepo{r.store} }

type fakeProductRepo struct{ s *fakeStore }

func (r fakeProductRepo) FindByID(_ context.Context, id int64) (model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r fakeProductRepo) FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r fakeProductRepo) SetStock(_ context.Context, id int64, stock int64) error {
	p, ok := r.s.products[id]
	if !ok {
		return repo.ErrNotFound
	}
	p.CurrentStock = stock
	r.s.products[id] = p
	return nil
}

func (r fakeProductRepo) Create(_ context.Context, p model.Product) (model.Product, error) {
	p.ID = r.s.nextID()
	r.s.products[p.ID] = p
	return p, nil
}

type fakeEntryRepo struct{ s *fakeStore }

func (r fakeEntryRepo) Create(_ context.Context, e model.InventoryEntry) (model.InventoryEntry, error) {
	e.ID = r.s.nextID()
	r.s.entries[e.ID] = e
	return e, nil
}

func (r fakeEntryRepo) FindByID(_ context.Context, id int64) (model.InventoryEntry, error) {
	e, ok := r.s.entries[id]
	if !ok {
		return model.InventoryEntry{}, repo.ErrNotFound
	}
	return e, nil
}

func (r fakeEntryRepo) Update(_ context.Context, e model.InventoryEntry) error {
	if _, ok := r.s.entries[e.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.entries[e.ID] = e
	return nil
}

func (r fakeEntryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.entries[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.entries, id)
	return nil
}

func (r fakeEntryRepo) List(_ context.Context, q repo.EntryListQuery) ([]model.InventoryEntry, int64, error) {
	var matched []model.InventoryEntry
	for _, e := range r.s.entries {
		if q.ProductID != nil && e.ProductID != *q.ProductID {
			continue
		}
		if q.StoreID != nil {
			p, ok := r.s.products[e.ProductID]
			if !ok || p.StoreID != *q.StoreID {
				continue
			}
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return paginate(matched, q.Page, q.Limit)
}

type fakeRequestRepo struct{ s *fakeStore }

func (r fakeRequestRepo) Create(_ context.Context, sr model.SupplyRequest) (model.SupplyRequest, error) {
	sr.ID = r.s.nextID()
	r.s.requests[sr.ID] = sr
	return sr, nil
}

func (r fakeRequestRepo) FindByID(_ context.Context, id int64) (model.SupplyRequest, error) {
	sr, ok := r.s.requests[id]
	if !ok {
		return model.SupplyRequest{}, repo.ErrNotFound
	}
	return sr, nil
}

func (r fakeRequestRepo) Update(_ context.Context, sr model.SupplyRequest) error {
	if _, ok := r.s.requests[sr.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.requests[sr.ID] = sr
	return nil
}

func (r fakeRequestRepo) List(_ context.Context, q repo.SupplyRequestListQuery) ([]model.SupplyRequest, int64, error) {
	var matched []model.SupplyRequest
	for _, sr := range r.s.requests {
		if q.RequestedBy != nil && sr.RequestedBy != *q.RequestedBy {
			continue
		}
		if q.Status != nil && sr.Status != *q.Status {
			continue
		}
		if q.StoreID != nil {
			p, ok := r.s.products[sr.ProductID]
			if !ok || p.StoreID != *q.StoreID {
				continue
			}
		}
		matched = append(matched, sr)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return paginate(matched, q.Page, q.Limit)
}

type fakeNotificationRepo struct{ s *fakeStore }

func (r fakeNotificationRepo) Create(_ context.Context, n model.Notification) (model.Notification, error) {
	n.ID = r.s.nextID()
	r.s.notifications[n.ID] = n
	return n, nil
}

func (r fakeNotificationRepo) FindByID(_ context.Context, id int64) (model.Notification, error) {
	n, ok := r.s.notifications[id]
	if !ok {
		return model.Notification{}, repo.ErrNotFound
	}
	return n, nil
}

func (r fakeNotificationRepo) ListByUser(_ context.Context, userID int64, q repo.NotificationListQuery) ([]model.Notification, int64, error) {
	var matched []model.Notification
	for _, n := range r.s.notifications {
		if n.UserID != nil && *n.UserID != userID {
			continue
		}
		if q.IsRead != nil && n.IsRead != *q.IsRead {
			continue
		}
		matched = append(matched, n)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return paginate(matched, q.Page, q.Limit)
}

func (r fakeNotificationRepo) MarkRead(_ context.Context, id int64) error {
	n, ok := r.s.notifications[id]
	if !ok {
		return repo.ErrNotFound
	}
	n.IsRead = true
	r.s.notifications[id] = n
	return nil
}

func (r fakeNotificationRepo) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	var count int64
	for id, n := range r.s.notifications {
		if n.UserID == nil || *n.UserID != userID || n.IsRead {
			continue
		}
		n.IsRead = true
		r.s.notifications[id] = n
		count++
	}
	return count, nil
}

func (r fakeNotificationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.notifications[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.notifications, id)
	return nil
}

type fakeUserRepo struct{ s *fakeStore }

func (r fakeUserRepo) FindByID(_ context.Context, id int64) (model.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return model.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r fakeUserRepo) ListStoreStaff(_ context.Context, storeID int64) ([]model.User, error) {
	var staff []model.User
	for _, u := range r.s.users {
		if !u.IsActive {
			continue
		}
		if u.Role == model.RoleMerchant {
			staff = append(staff, u)
			continue
		}
		if u.Role == model.RoleAdmin && u.StoreID != nil && *u.StoreID == storeID {
			staff = append(staff, u)
		}
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].ID < staff[j].ID })
	return staff, nil
}

func (r fakeUserRepo) Create(_ context.Context, u model.User) (model.User, error) {
	u.ID = r.s.nextID()
	r.s.users[u.ID] = u
	return u, nil
}

type fakeSupplierRepo struct{ s *fakeStore }

func (r fakeSupplierRepo) FindByID(_ context.Context, id int64) (model.Supplier, error) {
	sp, ok := r.s.suppliers[id]
	if !ok {
		return model.Supplier{}, repo.ErrNotFound
	}
	return sp, nil
}

func (r fakeSupplierRepo) Create(_ context.Context, sp model.Supplier) (model.Supplier, error) {
	sp.ID = r.s.nextID()
	r.s.suppliers[sp.ID] = sp
	return sp, nil
}

type fakeAuditLogRepo struct{ s *fakeStore }

func (r fakeAuditLogRepo) Create(_ context.Context, log model.AuditLog) error {
	log.ID = r.s.nextID()
	r.s.auditLogs = append(r.s.auditLogs, log)
	return nil
}

func (r fakeAuditLogRepo) List(_ context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	var matched []model.AuditLog
	for _, l := range r.s.auditLogs {
		if filter.Action != nil && l.Action != *filter.Action {
			continue
		}
		if filter.ActorUserID != nil && l.ActorUserID != *filter.ActorUserID {
			continue
		}
		matched = append(matched, l)
	}
	return matched, nil
}

func paginate[T any](items []T, page, limit int) ([]T, int64, error) {
	total := int64(len(items))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total, nil
}
