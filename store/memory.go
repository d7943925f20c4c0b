package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"seeu_cafe_server/structs/tables"
)

// Memory is an in-memory Store used by tests. RunInTx snapshots the whole
// dataset up front and restores it when the closure fails, which gives the
// same all-or-nothing visibility the bun implementation gets from Postgres.
type Memory struct {
	mu   sync.RWMutex
	data *memData
	seq  int64
}

type memData struct {
	tables    map[int64]*tables.CafeTable
	orders    map[int64]*tables.Order
	payments  map[int64]*tables.Payment
	bills     map[int64]*tables.CombinedBill
	lineItems map[int64]*tables.BillLineItem
}

func NewMemory() *Memory {
	return &Memory{
		data: &memData{
			tables:    make(map[int64]*tables.CafeTable),
			orders:    make(map[int64]*tables.Order),
			payments:  make(map[int64]*tables.Payment),
			bills:     make(map[int64]*tables.CombinedBill),
			lineItems: make(map[int64]*tables.BillLineItem),
		},
	}
}

// SeedTable inserts a table fixture.
func (m *Memory) SeedTable(t *tables.CafeTable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.tables[t.Id] = cloneTable(t)
}

// SeedOrder inserts an order fixture together with its line items.
func (m *Memory) SeedOrder(o *tables.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.orders[o.Id] = cloneOrder(o)
}

// SeedBill inserts or overwrites a bill fixture, leaving its line items
// untouched. Lets tests backdate a bill created through the service layer.
func (m *Memory) SeedBill(b *tables.CombinedBill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.bills[b.Id] = cloneBill(b)
}

// Payments returns every stored payment, for test assertions.
func (m *Memory) Payments() []tables.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]tables.Payment, 0, len(m.data.payments))
	for _, p := range m.data.payments {
		out = append(out, *clonePayment(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (m *Memory) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	if err := fn(ctx, &memTx{data: m.data, owner: m}); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

func (m *Memory) nextSeq() int64 {
	m.seq++
	return m.seq
}

// Reads outside a transaction take the read lock and delegate to memData.

func (m *Memory) FindTable(ctx context.Context, id int64) (*tables.CafeTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.findTable(id), nil
}

func (m *Memory) ListOccupiedTables(ctx context.Context) ([]tables.CafeTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.listOccupiedTables(), nil
}

func (m *Memory) ReleaseTable(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.releaseTable(id)
	return nil
}

func (m *Memory) FindOrders(ctx context.Context, ids []int64) ([]tables.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.findOrders(ids), nil
}

func (m *Memory) SettleableOrdersByTable(ctx context.Context, tableId int64) ([]tables.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.settleableOrdersByTable(tableId), nil
}

func (m *Memory) CompleteOrder(ctx context.Context, orderId int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.completeOrder(orderId)
	return nil
}

func (m *Memory) CreatePayment(ctx context.Context, payment *tables.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.createPayment(payment, m)
}

func (m *Memory) PaymentsByBill(ctx context.Context, billId int64) ([]tables.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.paymentsByBill(billId), nil
}

func (m *Memory) BillPaymentsSince(ctx context.Context, since time.Time) ([]tables.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.billPaymentsSince(since), nil
}

func (m *Memory) CreateCombinedBill(ctx context.Context, bill *tables.CombinedBill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.createCombinedBill(bill)
}

func (m *Memory) CreateBillLineItems(ctx context.Context, items []tables.BillLineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.createBillLineItems(items, m)
}

func (m *Memory) FindCombinedBill(ctx context.Context, id int64) (*tables.CombinedBill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.findCombinedBill(id), nil
}

func (m *Memory) ListCombinedBills(ctx context.Context, status *tables.BillStatus) ([]tables.CombinedBill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.listCombinedBills(status), nil
}

func (m *Memory) ListCombinedBillsSince(ctx context.Context, since time.Time) ([]tables.CombinedBill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.listCombinedBillsSince(since), nil
}

func (m *Memory) PendingBillForOrders(ctx context.Context, orderIds []int64) (*tables.CombinedBill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.pendingBillForOrders(orderIds), nil
}

func (m *Memory) TransitionBillStatus(ctx context.Context, id int64, from, to tables.BillStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.transitionBillStatus(id, from, to), nil
}

func (m *Memory) AppendBillNote(ctx context.Context, id int64, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.appendBillNote(id, note)
	return nil
}

// memTx is the Store handed to RunInTx closures. The outer Memory already
// holds the write lock, so memTx operates on the shared data lock-free.
type memTx struct {
	data  *memData
	owner *Memory
}

func (t *memTx) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	// Nested transactions join the outer one.
	return fn(ctx, t)
}

func (t *memTx) FindTable(ctx context.Context, id int64) (*tables.CafeTable, error) {
	return t.data.findTable(id), nil
}

func (t *memTx) ListOccupiedTables(ctx context.Context) ([]tables.CafeTable, error) {
	return t.data.listOccupiedTables(), nil
}

func (t *memTx) ReleaseTable(ctx context.Context, id int64) error {
	t.data.releaseTable(id)
	return nil
}

func (t *memTx) FindOrders(ctx context.Context, ids []int64) ([]tables.Order, error) {
	return t.data.findOrders(ids), nil
}

func (t *memTx) SettleableOrdersByTable(ctx context.Context, tableId int64) ([]tables.Order, error) {
	return t.data.settleableOrdersByTable(tableId), nil
}

func (t *memTx) CompleteOrder(ctx context.Context, orderId int64) error {
	t.data.completeOrder(orderId)
	return nil
}

func (t *memTx) CreatePayment(ctx context.Context, payment *tables.Payment) error {
	return t.data.createPayment(payment, t.owner)
}

func (t *memTx) PaymentsByBill(ctx context.Context, billId int64) ([]tables.Payment, error) {
	return t.data.paymentsByBill(billId), nil
}

func (t *memTx) BillPaymentsSince(ctx context.Context, since time.Time) ([]tables.Payment, error) {
	return t.data.billPaymentsSince(since), nil
}

func (t *memTx) CreateCombinedBill(ctx context.Context, bill *tables.CombinedBill) error {
	return t.data.createCombinedBill(bill)
}

func (t *memTx) CreateBillLineItems(ctx context.Context, items []tables.BillLineItem) error {
	return t.data.createBillLineItems(items, t.owner)
}

func (t *memTx) FindCombinedBill(ctx context.Context, id int64) (*tables.CombinedBill, error) {
	return t.data.findCombinedBill(id), nil
}

func (t *memTx) ListCombinedBills(ctx context.Context, status *tables.BillStatus) ([]tables.CombinedBill, error) {
	return t.data.listCombinedBills(status), nil
}

func (t *memTx) ListCombinedBillsSince(ctx context.Context, since time.Time) ([]tables.CombinedBill, error) {
	return t.data.listCombinedBillsSince(since), nil
}

func (t *memTx) PendingBillForOrders(ctx context.Context, orderIds []int64) (*tables.CombinedBill, error) {
	return t.data.pendingBillForOrders(orderIds), nil
}

func (t *memTx) TransitionBillStatus(ctx context.Context, id int64, from, to tables.BillStatus) (bool, error) {
	return t.data.transitionBillStatus(id, from, to), nil
}

func (t *memTx) AppendBillNote(ctx context.Context, id int64, note string) error {
	t.data.appendBillNote(id, note)
	return nil
}
