package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	products       repo.ProductRepository
	entries        repo.InventoryEntryRepository
	supplyRequests repo.SupplyRequestRepository
	notifications  repo.NotificationRepository
	users          repo.UserRepository
	suppliers      repo.SupplierRepository
	auditLogs      repo.AuditLogRepository
}

func (r *txReposGorm) Products() repo.ProductRepository             { return r.products }
func (r *txReposGorm) Entries() repo.InventoryEntryRepository       { return r.entries }
func (r *txReposGorm) SupplyRequests() repo.SupplyRequestRepository { return r.supplyRequests }
func (r *txReposGorm) Notifications() repo.NotificationRepository   { return r.notifications }
func (r *txReposGorm) Users() repo.UserRepository                   { return r.users }
func (r *txReposGorm) Suppliers() repo.SupplierRepository           { return r.suppliers }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository           { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			products:       NewProductGormRepository(tx),
			entries:        NewInventoryEntryGormRepository(tx),
			supplyRequests: NewSupplyRequestGormRepository(tx),
			notifications:  NewNotificationGormRepository(tx),
			users:          NewUserGormRepository(tx),
			suppliers:      NewSupplierGormRepository(tx),
			auditLogs:      NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
