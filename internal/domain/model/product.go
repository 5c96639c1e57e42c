package model

import "time"

// CurrentStockは台帳（ledger）経由でしか書き換えない。
// 不変条件: current_stock == その商品の全エントリの net_quantity 合計。
type Product struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreID       int64     `gorm:"not null;index" json:"store_id"`
	CategoryID    *int64    `gorm:"index" json:"category_id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	CurrentStock  int64     `gorm:"not null;default:0" json:"current_stock"`
	MinStockLevel int64     `gorm:"not null;default:0" json:"min_stock_level"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 発注しきい値以下まで下がっているか。
func (p Product) BelowMinStock() bool {
	return p.CurrentStock <= p.MinStockLevel
}
