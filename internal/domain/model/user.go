package model

import "time"

type Role string

const (
	RoleClerk    Role = "CLERK"
	RoleAdmin    Role = "ADMIN"
	RoleMerchant Role = "MERCHANT"
)

// MERCHANTは全店舗を横断するのでStoreIDを持たない（nil）。
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreID      *int64 `gorm:"index" json:"store_id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'CLERK'" json:"role"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
