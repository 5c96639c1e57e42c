package repository

import (
	"app/internal/domain/model"
	"context"
)

// 一覧検索
type SupplyRequestListQuery struct {
	Page        int
	Limit       int
	StoreID     *int64
	RequestedBy *int64
	Status      *model.RequestStatus
}

// 補充申請の永続化だけを約束。状態遷移のルールはusecaseが守る。
type SupplyRequestRepository interface {
	Create(ctx context.Context, sr model.SupplyRequest) (model.SupplyRequest, error)
	FindByID(ctx context.Context, id int64) (model.SupplyRequest, error)
	Update(ctx context.Context, sr model.SupplyRequest) error
	List(ctx context.Context, q SupplyRequestListQuery) ([]model.SupplyRequest, int64, error)
}
