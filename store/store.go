package store

import (
	"context"
	"time"

	"seeu_cafe_server/structs/tables"
)

// Store is the persistence boundary of the settlement engine. Every write
// path runs inside RunInTx, so the five billing mutations share one tested
// atomicity primitive instead of hand-rolled transaction blocks.
//
// Find methods return nil (not an error) when nothing matches; callers
// decide whether absence is a NotFound.
type Store interface {
	// Tables
	FindTable(ctx context.Context, id int64) (*tables.CafeTable, error)
	ListOccupiedTables(ctx context.Context) ([]tables.CafeTable, error)
	// ReleaseTable marks a table available and clears its session fields.
	// It is idempotent: releasing an already-available table is a no-op,
	// never an error, because the idle-table scheduler may race us.
	ReleaseTable(ctx context.Context, id int64) error

	// Orders
	FindOrders(ctx context.Context, ids []int64) ([]tables.Order, error)
	// SettleableOrdersByTable returns the table's orders whose status is
	// ready, served or completed and which carry no completed payment,
	// with line items preloaded.
	SettleableOrdersByTable(ctx context.Context, tableId int64) ([]tables.Order, error)
	CompleteOrder(ctx context.Context, orderId int64) error

	// Payments
	CreatePayment(ctx context.Context, payment *tables.Payment) error
	PaymentsByBill(ctx context.Context, billId int64) ([]tables.Payment, error)
	BillPaymentsSince(ctx context.Context, since time.Time) ([]tables.Payment, error)

	// Combined bills
	CreateCombinedBill(ctx context.Context, bill *tables.CombinedBill) error
	CreateBillLineItems(ctx context.Context, items []tables.BillLineItem) error
	// FindCombinedBill loads the bill with its line items.
	FindCombinedBill(ctx context.Context, id int64) (*tables.CombinedBill, error)
	ListCombinedBills(ctx context.Context, status *tables.BillStatus) ([]tables.CombinedBill, error)
	ListCombinedBillsSince(ctx context.Context, since time.Time) ([]tables.CombinedBill, error)
	// PendingBillForOrders returns a pending bill referencing any of the
	// given orders, or nil. Guards the one-active-bill-per-order rule.
	PendingBillForOrders(ctx context.Context, orderIds []int64) (*tables.CombinedBill, error)
	// TransitionBillStatus conditionally moves a bill from one status to
	// another and reports whether the transition won. A false return with
	// nil error means a concurrent caller got there first.
	TransitionBillStatus(ctx context.Context, id int64, from, to tables.BillStatus) (bool, error)
	AppendBillNote(ctx context.Context, id int64, note string) error

	// RunInTx executes fn atomically. The Store handed to fn is bound to
	// the transaction; any error rolls everything back.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
