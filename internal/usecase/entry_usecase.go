package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/ledger"
	"app/internal/notify"
	repo "app/internal/repository"
)

// 在庫エントリのライフサイクル。作成・更新・削除のたびに台帳を同期する。
// エントリ行・台帳の差分・通知行は1つのTxで全部commitか全部rollback。
type EntryUsecase struct {
	tx         repo.TransactionManager
	ledger     *ledger.StockLedger
	dispatcher *notify.Dispatcher
}

func NewEntryUsecase(tx repo.TransactionManager, l *ledger.StockLedger, d *notify.Dispatcher) *EntryUsecase {
	return &EntryUsecase{tx: tx, ledger: l, dispatcher: d}
}

type CreateEntryInput struct {
	ProductID        int64
	QuantityReceived int64
	QuantitySpoiled  int64
	BuyingPrice      int64
	SellingPrice     int64
	PaymentStatus    string
	SupplierID       *int64
	EntryDate        *time.Time
}

// 数量・価格の共通バリデーション。
func validateEntryNumbers(received, spoiled, buying, selling int64) error {
	if received < 1 {
		return NewValidationError("quantity_received must be >= 1", "quantity_received")
	}
	if spoiled < 0 {
		return NewValidationError("quantity_spoiled must be >= 0", "quantity_spoiled")
	}
	if spoiled > received {
		return NewValidationError("quantity_spoiled must not exceed quantity_received", "quantity_spoiled")
	}
	if buying <= 0 {
		return NewValidationError("buying_price must be > 0", "buying_price")
	}
	if selling <= 0 {
		return NewValidationError("selling_price must be > 0", "selling_price")
	}
	return nil
}

func (u *EntryUsecase) CreateEntry(ctx context.Context, actor Actor, in CreateEntryInput) (model.InventoryEntry, error) {
	if actor.ID <= 0 {
		return model.InventoryEntry{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return model.InventoryEntry{}, NewValidationError("invalid product_id", "product_id")
	}
	if err := validateEntryNumbers(in.QuantityReceived, in.QuantitySpoiled, in.BuyingPrice, in.SellingPrice); err != nil {
		return model.InventoryEntry{}, err
	}

	//payment_statusは省略時UNPAID
	status := model.PaymentStatusUnpaid
	if in.PaymentStatus != "" {
		status = model.PaymentStatus(in.PaymentStatus)
		if !status.Valid() {
			return model.InventoryEntry{}, NewValidationError("invalid payment_status", "payment_status")
		}
	}

	batch := u.dispatcher.NewBatch()
	var out model.InventoryEntry

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//店舗スコープ（MERCHANTは全店舗）
		if !actor.CanAccessStore(p.StoreID) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		if in.SupplierID != nil {
			if _, err := r.Suppliers().FindByID(ctx, *in.SupplierID); err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "supplier not found")
			} else if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		now := time.Now()
		entryDate := now
		if in.EntryDate != nil {
			entryDate = *in.EntryDate
		}

		e, err := r.Entries().Create(ctx, model.InventoryEntry{
			ProductID:        in.ProductID,
			QuantityReceived: in.QuantityReceived,
			QuantitySpoiled:  in.QuantitySpoiled,
			BuyingPrice:      in.BuyingPrice,
			SellingPrice:     in.SellingPrice,
			PaymentStatus:    status,
			SupplierID:       in.SupplierID,
			RecordedBy:       actor.ID,
			EntryDate:        entryDate,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//台帳へ差分を適用（低在庫なら通知が積まれる）
		if _, err := u.ledger.Apply(ctx, r, batch, p.ID, e.NetQuantity()); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = e
		return nil
	})
	if err != nil {
		return model.InventoryEntry{}, err
	}

	//pushはコミット後・ベストエフォート
	batch.Flush(ctx)
	return out, nil
}

type UpdateEntryInput struct {
	QuantityReceived *int64
	QuantitySpoiled  *int64
	BuyingPrice      *int64
	SellingPrice     *int64
	PaymentStatus    *string
	SupplierID       *int64
	EntryDate        *time.Time
}

func (u *EntryUsecase) UpdateEntry(ctx context.Context, actor Actor, entryID int64, in UpdateEntryInput) (model.InventoryEntry, error) {
	if actor.ID <= 0 {
		return model.InventoryEntry{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if entryID <= 0 {
		return model.InventoryEntry{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	batch := u.dispatcher.NewBatch()
	var out model.InventoryEntry

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		e, err := r.Entries().FindByID(ctx, entryID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "entry not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p, err := r.Products().FindByID(ctx, e.ProductID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !actor.CanAccessStore(p.StoreID) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		oldNet := e.NetQuantity()
		before := entryAuditJSON(e)

		//部分更新を反映
		if in.QuantityReceived != nil {
			e.QuantityReceived = *in.QuantityReceived
		}
		if in.QuantitySpoiled != nil {
			e.QuantitySpoiled = *in.QuantitySpoiled
		}
		if in.BuyingPrice != nil {
			e.BuyingPrice = *in.BuyingPrice
		}
		if in.SellingPrice != nil {
			e.SellingPrice = *in.SellingPrice
		}
		if in.PaymentStatus != nil {
			e.PaymentStatus = model.PaymentStatus(*in.PaymentStatus)
			if !e.PaymentStatus.Valid() {
				return NewValidationError("invalid payment_status", "payment_status")
			}
		}
		if in.SupplierID != nil {
			if _, err := r.Suppliers().FindByID(ctx, *in.SupplierID); err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "supplier not found")
			} else if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			e.SupplierID = in.SupplierID
		}
		if in.EntryDate != nil {
			e.EntryDate = *in.EntryDate
		}

		//更新後の値で再バリデーション。失敗ならTxごとrollbackされるので
		//台帳が巻き戻しだけ適用された状態は残らない。
		if err := validateEntryNumbers(e.QuantityReceived, e.QuantitySpoiled, e.BuyingPrice, e.SellingPrice); err != nil {
			return err
		}

		e.UpdatedAt = time.Now()
		if err := r.Entries().Update(ctx, e); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//旧netを外して新netを適用（Revert→Applyの合成）
		if _, err := u.ledger.Replace(ctx, r, batch, p.ID, oldNet, e.NetQuantity()); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.ID,
			Action:       model.AuditActionUpdateEntry,
			ResourceType: model.AuditResourceEntry,
			ResourceID:   e.ID,
			BeforeJSON:   before,
			AfterJSON:    entryAuditJSON(e),
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = e
		return nil
	})
	if err != nil {
		return model.InventoryEntry{}, err
	}

	batch.Flush(ctx)
	return out, nil
}

func (u *EntryUsecase) DeleteEntry(ctx context.Context, actor Actor, entryID int64) error {
	if actor.ID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if entryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	batch := u.dispatcher.NewBatch()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		e, err := r.Entries().FindByID(ctx, entryID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "entry not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p, err := r.Products().FindByID(ctx, e.ProductID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !actor.CanAccessStore(p.StoreID) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		//台帳からエントリの効果を外してから行を消す
		updated, err := u.ledger.Revert(ctx, r, p.ID, e.NetQuantity())
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Entries().Delete(ctx, e.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//削除後の低在庫チェック（文面は削除後用）
		if updated.BelowMinStock() {
			if err := batch.FanOut(ctx, r, updated.StoreID, ledger.LowStockAfterDeleteMessage(updated)); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.ID,
			Action:       model.AuditActionDeleteEntry,
			ResourceType: model.AuditResourceEntry,
			ResourceID:   e.ID,
			BeforeJSON:   entryAuditJSON(e),
			AfterJSON:    "{}",
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
	if err != nil {
		return err
	}

	batch.Flush(ctx)
	return nil
}

type ListEntriesInput struct {
	Page      int
	Limit     int
	ProductID *int64
}

type EntryListOutput struct {
	Items []model.InventoryEntry `json:"items"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

func (u *EntryUsecase) ListEntries(ctx context.Context, actor Actor, in ListEntriesInput) (EntryListOutput, error) {
	if actor.ID <= 0 {
		return EntryListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Page < 1 {
		return EntryListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return EntryListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	//MERCHANTは全店舗、それ以外は自店舗だけ
	var storeID *int64
	if actor.Role != model.RoleMerchant {
		if actor.StoreID == nil {
			return EntryListOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
		}
		storeID = actor.StoreID
	}

	var out EntryListOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, total, err := r.Entries().List(ctx, repo.EntryListQuery{
			Page:      in.Page,
			Limit:     in.Limit,
			StoreID:   storeID,
			ProductID: in.ProductID,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = EntryListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}
		return nil
	})
	if err != nil {
		return EntryListOutput{}, err
	}
	return out, nil
}

// 監査ログ用の要約JSON。
func entryAuditJSON(e model.InventoryEntry) string {
	return fmt.Sprintf(
		`{"quantity_received":%d,"quantity_spoiled":%d,"buying_price":%d,"selling_price":%d,"payment_status":"%s"}`,
		e.QuantityReceived, e.QuantitySpoiled, e.BuyingPrice, e.SellingPrice, e.PaymentStatus,
	)
}
