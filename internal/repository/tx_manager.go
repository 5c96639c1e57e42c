package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Products() ProductRepository
	Entries() InventoryEntryRepository
	SupplyRequests() SupplyRequestRepository
	Notifications() NotificationRepository
	Users() UserRepository
	Suppliers() SupplierRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// エントリ/申請の行・台帳の差分・通知行は、同じTxで全部commitか全部rollback。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
