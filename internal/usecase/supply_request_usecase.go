package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/notify"
	repo "app/internal/repository"
)

// 補充申請のワークフロー。PENDING → APPROVED/DECLINED の一方向だけ。
// 承認しても在庫は動かない（補充の入荷は別途エントリ作成で記録する）。
type SupplyRequestUsecase struct {
	tx         repo.TransactionManager
	dispatcher *notify.Dispatcher
}

func NewSupplyRequestUsecase(tx repo.TransactionManager, d *notify.Dispatcher) *SupplyRequestUsecase {
	return &SupplyRequestUsecase{tx: tx, dispatcher: d}
}

type CreateSupplyRequestInput struct {
	ProductID         int64
	QuantityRequested int64
}

func (u *SupplyRequestUsecase) Create(ctx context.Context, actor Actor, in CreateSupplyRequestInput) (model.SupplyRequest, error) {
	if actor.ID <= 0 {
		return model.SupplyRequest{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return model.SupplyRequest{}, NewValidationError("invalid product_id", "product_id")
	}
	if in.QuantityRequested < 1 {
		return model.SupplyRequest{}, NewValidationError("quantity_requested must be >= 1", "quantity_requested")
	}

	batch := u.dispatcher.NewBatch()
	var out model.SupplyRequest

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//店員は自店舗の商品にしか申請できない
		if !actor.CanAccessStore(p.StoreID) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		requester, err := r.Users().FindByID(ctx, actor.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := time.Now()
		sr, err := r.SupplyRequests().Create(ctx, model.SupplyRequest{
			ProductID:         in.ProductID,
			QuantityRequested: in.QuantityRequested,
			RequestedBy:       actor.ID,
			Status:            model.RequestStatusPending,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//店舗スタッフへ「申請が来た」通知
		msg := fmt.Sprintf("Supply request: %s asked for %d x %s.", requester.Name, sr.QuantityRequested, p.Name)
		if err := batch.FanOut(ctx, r, p.StoreID, msg); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = sr
		return nil
	})
	if err != nil {
		return model.SupplyRequest{}, err
	}

	batch.Flush(ctx)
	return out, nil
}

type ResolveSupplyRequestInput struct {
	Status        string
	DeclineReason string
}

func (u *SupplyRequestUsecase) Resolve(ctx context.Context, actor Actor, requestID int64, in ResolveSupplyRequestInput) (model.SupplyRequest, error) {
	if actor.ID <= 0 {
		return model.SupplyRequest{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if requestID <= 0 {
		return model.SupplyRequest{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	decision := model.RequestStatus(in.Status)
	switch decision {
	case model.RequestStatusApproved, model.RequestStatusDeclined:
		// OK
	default:
		return model.SupplyRequest{}, NewValidationError("invalid status", "status")
	}
	// decline_reasonは慣行上は期待されるが必須にはしない

	batch := u.dispatcher.NewBatch()
	var out model.SupplyRequest

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		sr, err := r.SupplyRequests().FindByID(ctx, requestID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "supply request not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//解決済みは二度と動かせない
		if sr.Status != model.RequestStatusPending {
			return NewHTTPError(http.StatusBadRequest, "only pending requests can be updated")
		}

		p, err := r.Products().FindByID(ctx, sr.ProductID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !actor.CanAccessStore(p.StoreID) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		before := fmt.Sprintf(`{"status":"%s"}`, sr.Status)

		resolvedBy := actor.ID
		sr.Status = decision
		sr.ResolvedBy = &resolvedBy
		if decision == model.RequestStatusDeclined {
			sr.DeclineReason = in.DeclineReason
		}
		sr.UpdatedAt = time.Now()

		if err := r.SupplyRequests().Update(ctx, sr); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//申請した店員へ結果を通知
		requesterID := sr.RequestedBy
		msg := resolutionMessage(p.Name, decision, sr.DeclineReason)
		if err := batch.Notify(ctx, r, &requesterID, msg); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.ID,
			Action:       model.AuditActionResolveSupplyRequest,
			ResourceType: model.AuditResourceSupplyRequest,
			ResourceID:   sr.ID,
			BeforeJSON:   before,
			AfterJSON:    fmt.Sprintf(`{"status":"%s"}`, sr.Status),
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = sr
		return nil
	})
	if err != nil {
		return model.SupplyRequest{}, err
	}

	batch.Flush(ctx)
	return out, nil
}

// 店員向けの解決通知の文面。却下理由があれば含める。
func resolutionMessage(productName string, decision model.RequestStatus, reason string) string {
	if decision == model.RequestStatusApproved {
		return fmt.Sprintf("Your supply request for %s was approved.", productName)
	}
	if reason != "" {
		return fmt.Sprintf("Your supply request for %s was declined: %s", productName, reason)
	}
	return fmt.Sprintf("Your supply request for %s was declined.", productName)
}

type ListSupplyRequestsInput struct {
	Page   int
	Limit  int
	Status *string
}

type SupplyRequestListOutput struct {
	Items []model.SupplyRequest `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

func (u *SupplyRequestUsecase) List(ctx context.Context, actor Actor, in ListSupplyRequestsInput) (SupplyRequestListOutput, error) {
	if actor.ID <= 0 {
		return SupplyRequestListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Page < 1 {
		return SupplyRequestListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return SupplyRequestListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var status *model.RequestStatus
	if in.Status != nil && *in.Status != "" {
		s := model.RequestStatus(*in.Status)
		switch s {
		case model.RequestStatusPending, model.RequestStatusApproved, model.RequestStatusDeclined:
			status = &s
		default:
			return SupplyRequestListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	q := repo.SupplyRequestListQuery{Page: in.Page, Limit: in.Limit, Status: status}
	switch actor.Role {
	case model.RoleClerk:
		//店員は自分の申請だけ
		requester := actor.ID
		q.RequestedBy = &requester
	case model.RoleAdmin:
		if actor.StoreID == nil {
			return SupplyRequestListOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
		}
		q.StoreID = actor.StoreID
	case model.RoleMerchant:
		//全店舗
	default:
		return SupplyRequestListOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var out SupplyRequestListOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, total, err := r.SupplyRequests().List(ctx, q)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = SupplyRequestListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}
		return nil
	})
	if err != nil {
		return SupplyRequestListOutput{}, err
	}
	return out, nil
}
