package model

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusDeclined RequestStatus = "DECLINED"
)

// 解決後の遷移はできない。PENDINGだけが遷移可能。
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusDeclined
}

// 店員（CLERK）の補充申請。管理者が承認/却下で一度だけ解決する。
type SupplyRequest struct {
	ID                int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID         int64         `gorm:"not null;index" json:"product_id"`
	QuantityRequested int64         `gorm:"not null" json:"quantity_requested"`
	RequestedBy       int64         `gorm:"not null;index" json:"requested_by"`
	Status            RequestStatus `gorm:"type:varchar(20);not null;index;default:'PENDING'" json:"status"`
	ResolvedBy        *int64        `gorm:"index" json:"resolved_by"`
	DeclineReason     string        `gorm:"type:varchar(255)" json:"decline_reason,omitempty"`
	CreatedAt         time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
