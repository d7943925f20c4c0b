package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"seeu_cafe_server/database"
	"seeu_cafe_server/lib"
	"seeu_cafe_server/structs/tables"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// Bun is the production Store backed by Postgres through bun. Outside a
// transaction it holds the pooled connection; RunInTx rebinds it to the
// open bun.Tx so every method transparently joins the unit of work.
type Bun struct {
	idb bun.IDB
}

func NewBun(db *database.DB) *Bun {
	return &Bun{idb: db.DB}
}

func (s *Bun) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	// Already inside a transaction: join it instead of nesting.
	if _, ok := s.idb.(bun.Tx); ok {
		return fn(ctx, s)
	}

	db, ok := s.idb.(*bun.DB)
	if !ok {
		return fmt.Errorf("store: unsupported connection type %T", s.idb)
	}

	return db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &Bun{idb: tx})
	})
}

// -- Tables --

func (s *Bun) FindTable(ctx context.Context, id int64) (*tables.CafeTable, error) {
	return database.Query[tables.CafeTable](s.idb).
		Where("id", id).
		First(ctx)
}

func (s *Bun) ListOccupiedTables(ctx context.Context) ([]tables.CafeTable, error) {
	return database.Query[tables.CafeTable](s.idb).
		Where("status", tables.TableStatusOccupied).
		OrderBy("number", "ASC").
		All(ctx)
}

func (s *Bun) ReleaseTable(ctx context.Context, id int64) error {
	_, err := database.Query[tables.CafeTable](s.idb).
		Where("id", id).
		Update(ctx, map[string]any{
			"status":         tables.TableStatusAvailable,
			"occupied_since": nil,
			"expected_end":   nil,
			"updated_at":     time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to release table %d: %w", id, err)
	}
	return nil
}

// -- Orders --

func (s *Bun) FindOrders(ctx context.Context, ids []int64) ([]tables.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return database.Query[tables.Order](s.idb).
		WhereIn("id", toAny(ids)).
		Relation("Details").
		OrderBy("created_at", "ASC").
		All(ctx)
}

func (s *Bun) SettleableOrdersByTable(ctx context.Context, tableId int64) ([]tables.Order, error) {
	var orders []tables.Order

	err := database.WithRetry(ctx, func() error {
		orders = nil
		return s.idb.NewSelect().Model(&orders).
			Relation("Details").
			Where("o.table_id = ?", tableId).
			Where("o.status IN (?)", bun.In(tables.SettleableOrderStatuses)).
			Where("NOT EXISTS (SELECT 1 FROM payments AS p WHERE p.order_id = o.id AND p.status = ?)",
				tables.PaymentStatusCompleted).
			OrderExpr("o.created_at ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load settleable orders for table %d: %w", tableId, err)
	}

	return orders, nil
}

func (s *Bun) CompleteOrder(ctx context.Context, orderId int64) error {
	_, err := database.Query[tables.Order](s.idb).
		Where("id", orderId).
		Update(ctx, map[string]any{
			"status":     tables.OrderStatusCompleted,
			"updated_at": time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to complete order %d: %w", orderId, err)
	}
	return nil
}

// -- Payments --

func (s *Bun) CreatePayment(ctx context.Context, payment *tables.Payment) error {
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	_, err := database.Query[tables.Payment](s.idb).Insert(ctx, payment)
	return lib.MapDbError(err)
}

func (s *Bun) PaymentsByBill(ctx context.Context, billId int64) ([]tables.Payment, error) {
	return database.Query[tables.Payment](s.idb).
		Where("combined_bill_id", billId).
		OrderBy("created_at", "ASC").
		All(ctx)
}

func (s *Bun) BillPaymentsSince(ctx context.Context, since time.Time) ([]tables.Payment, error) {
	return database.Query[tables.Payment](s.idb).
		WhereNotNull("combined_bill_id").
		WhereOp("created_at", ">=", since).
		All(ctx)
}

// -- Combined bills --

func (s *Bun) CreateCombinedBill(ctx context.Context, bill *tables.CombinedBill) error {
	now := time.Now()
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = now
	}
	bill.UpdatedAt = now
	_, err := database.Query[tables.CombinedBill](s.idb).Insert(ctx, bill)
	return lib.MapDbError(err)
}

func (s *Bun) CreateBillLineItems(ctx context.Context, items []tables.BillLineItem) error {
	_, err := database.Query[tables.BillLineItem](s.idb).InsertMany(ctx, items)
	return lib.MapDbError(err)
}

func (s *Bun) FindCombinedBill(ctx context.Context, id int64) (*tables.CombinedBill, error) {
	return database.Query[tables.CombinedBill](s.idb).
		Where("id", id).
		Relation("LineItems").
		First(ctx)
}

func (s *Bun) ListCombinedBills(ctx context.Context, status *tables.BillStatus) ([]tables.CombinedBill, error) {
	q := database.Query[tables.CombinedBill](s.idb).
		Relation("LineItems").
		OrderBy("created_at", "DESC")

	if status != nil {
		q = q.Where("status", *status)
	}

	return q.All(ctx)
}

func (s *Bun) ListCombinedBillsSince(ctx context.Context, since time.Time) ([]tables.CombinedBill, error) {
	return database.Query[tables.CombinedBill](s.idb).
		WhereOp("created_at", ">=", since).
		Relation("LineItems").
		OrderBy("created_at", "DESC").
		All(ctx)
}

func (s *Bun) PendingBillForOrders(ctx context.Context, orderIds []int64) (*tables.CombinedBill, error) {
	if len(orderIds) == 0 {
		return nil, nil
	}

	var bills []tables.CombinedBill
	err := database.WithRetry(ctx, func() error {
		bills = nil
		return s.idb.NewSelect().Model(&bills).
			Join("JOIN bill_line_items AS bli ON bli.combined_bill_id = cb.id").
			Where("cb.status = ?", tables.BillStatusPending).
			Where("bli.order_ids && ?", pgdialect.Array(orderIds)).
			Limit(1).
			Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check active bills for orders: %w", err)
	}

	if len(bills) == 0 {
		return nil, nil
	}
	return &bills[0], nil
}

func (s *Bun) TransitionBillStatus(ctx context.Context, id int64, from, to tables.BillStatus) (bool, error) {
	now := time.Now()

	var affected int64
	err := database.WithRetry(ctx, func() error {
		q := s.idb.NewUpdate().Model((*tables.CombinedBill)(nil)).
			Set("status = ?", to).
			Set("updated_at = ?", now)
		if to == tables.BillStatusPaid {
			q = q.Set("settled_at = ?", now)
		}

		res, err := q.
			Where("id = ?", id).
			Where("status = ?", from).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to transition bill %d: %w", id, err)
	}

	return affected > 0, nil
}

func (s *Bun) AppendBillNote(ctx context.Context, id int64, note string) error {
	var err error
	err = database.WithRetry(ctx, func() error {
		_, execErr := s.idb.NewUpdate().Model((*tables.CombinedBill)(nil)).
			Set("note = CASE WHEN note = '' THEN ? ELSE note || E'\n' || ? END", note, note).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Exec(ctx)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to append note to bill %d: %w", id, err)
	}
	return nil
}

func toAny(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
