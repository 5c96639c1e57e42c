package model

import "time"

// 店舗。CRUD自体はこのサービスの対象外で、
// 所属チェックと通知のファンアウトのために参照だけする。
type Store struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Location  string    `gorm:"type:varchar(255)" json:"location"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
