package ledger

import (
	"context"
	"fmt"

	"app/internal/domain/model"
	"app/internal/notify"
	repo "app/internal/repository"
)

// 在庫台帳。商品のcurrent_stockをエントリ履歴と一致させる唯一の書き込み口。
// 全操作が開いているTx（repo.TxRepos）の中で動く前提。
// 差分だけを適用し、再集計はしない。マイナス在庫も丸めない。
type StockLedger struct{}

func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// current_stockにnetを加算する。行ロックを取ってから読み書きするので、
// 同一商品への同時更新で差分が消えることはない。
// 結果がmin_stock_level以下なら低在庫通知を店舗スタッフへ積む。
func (l *StockLedger) Apply(ctx context.Context, r repo.TxRepos, b *notify.Batch, productID int64, net int64) (model.Product, error) {
	p, err := r.Products().FindByIDForUpdate(ctx, productID)
	if err != nil {
		return model.Product{}, err
	}

	p.CurrentStock += net
	if err := r.Products().SetStock(ctx, p.ID, p.CurrentStock); err != nil {
		return model.Product{}, err
	}

	if p.BelowMinStock() {
		msg := LowStockMessage(p)
		if err := b.FanOut(ctx, r, p.StoreID, msg); err != nil {
			return model.Product{}, err
		}
	}

	return p, nil
}

// current_stockからnetを減算する。編集・削除の巻き戻し用。
// 低在庫チェックはしない（呼び出し側が操作単位で判断する）。
func (l *StockLedger) Revert(ctx context.Context, r repo.TxRepos, productID int64, net int64) (model.Product, error) {
	p, err := r.Products().FindByIDForUpdate(ctx, productID)
	if err != nil {
		return model.Product{}, err
	}

	p.CurrentStock -= net
	if err := r.Products().SetStock(ctx, p.ID, p.CurrentStock); err != nil {
		return model.Product{}, err
	}

	return p, nil
}

// Revert→Applyの合成。エントリ更新用で、台帳が2つの独立した差分の
// 途中値を外に見せないように1回の呼び出しにまとめる。
func (l *StockLedger) Replace(ctx context.Context, r repo.TxRepos, b *notify.Batch, productID int64, oldNet, newNet int64) (model.Product, error) {
	if _, err := l.Revert(ctx, r, productID, oldNet); err != nil {
		return model.Product{}, err
	}
	return l.Apply(ctx, r, b, productID, newNet)
}

// 低在庫通知の文面。
func LowStockMessage(p model.Product) string {
	return fmt.Sprintf("Low stock alert: %s is down to %d (minimum %d).", p.Name, p.CurrentStock, p.MinStockLevel)
}

// エントリ削除後の低在庫通知の文面。
func LowStockAfterDeleteMessage(p model.Product) string {
	return fmt.Sprintf("Stock of %s is at %d (minimum %d) after an inventory entry was deleted.", p.Name, p.CurrentStock, p.MinStockLevel)
}
