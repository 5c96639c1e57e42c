package usecase

import "app/internal/domain/model"

// 認証済みユーザー。middlewareがJWTから復元してhandler経由で渡す。
type Actor struct {
	ID      int64
	Role    model.Role
	StoreID *int64
}

// 対象店舗を触れるか。MERCHANTは全店舗、それ以外は自店舗だけ。
func (a Actor) CanAccessStore(storeID int64) bool {
	if a.Role == model.RoleMerchant {
		return true
	}
	return a.StoreID != nil && *a.StoreID == storeID
}
