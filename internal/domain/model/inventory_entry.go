package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "PAID"
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
)

// 有効な支払いステータスか。
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusUnpaid:
		return true
	}
	return false
}

// 入荷と廃棄をまとめた在庫エントリ。商品在庫のソース・オブ・トゥルース。
// quantity_received >= 1, 0 <= quantity_spoiled <= quantity_received。
type InventoryEntry struct {
	ID               int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID        int64         `gorm:"not null;index" json:"product_id"`
	QuantityReceived int64         `gorm:"not null" json:"quantity_received"`
	QuantitySpoiled  int64         `gorm:"not null;default:0" json:"quantity_spoiled"`
	BuyingPrice      int64         `gorm:"not null" json:"buying_price"`
	SellingPrice     int64         `gorm:"not null" json:"selling_price"`
	PaymentStatus    PaymentStatus `gorm:"type:varchar(20);not null;default:'UNPAID'" json:"payment_status"`
	SupplierID       *int64        `gorm:"index" json:"supplier_id"`
	RecordedBy       int64         `gorm:"not null;index" json:"recorded_by"`
	EntryDate        time.Time     `gorm:"not null" json:"entry_date"`
	CreatedAt        time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 入荷 − 廃棄。台帳に適用される差分。
func (e InventoryEntry) NetQuantity() int64 {
	return e.QuantityReceived - e.QuantitySpoiled
}
