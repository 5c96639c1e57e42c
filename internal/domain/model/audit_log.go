package model

import "time"

// エントリ更新、エントリ削除、補充申請の解決など。
type AuditAction string

const (
	//在庫エントリを更新した操作。
	AuditActionUpdateEntry AuditAction = "UPDATE_ENTRY"
	//在庫エントリを削除した操作。
	AuditActionDeleteEntry AuditAction = "DELETE_ENTRY"
	//補充申請を承認/却下した操作。
	AuditActionResolveSupplyRequest AuditAction = "RESOLVE_SUPPLY_REQUEST"
)

// 何に対する操作か
type AuditResourceType string

const (
	//在庫エントリに対する操作。
	AuditResourceEntry AuditResourceType = "inventory_entry"

	//補充申請に対する操作。
	AuditResourceSupplyRequest AuditResourceType = "supply_request"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザー（主に管理者）のID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	//Actionは操作の種類（UPDATE_ENTRY / RESOLVE_SUPPLY_REQUEST など）。
	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//対象の種類（inventory_entry / supply_request）。
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	//対象のID。
	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`

	//JSON文字列で保存する。
	AfterJSON string `gorm:"type:text" json:"after_json"`

	//作成時刻
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
