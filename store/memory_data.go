package store

import (
	"slices"
	"sort"
	"time"

	"seeu_cafe_server/structs/tables"
)

func (d *memData) findTable(id int64) *tables.CafeTable {
	t, ok := d.tables[id]
	if !ok {
		return nil
	}
	return cloneTable(t)
}

func (d *memData) listOccupiedTables() []tables.CafeTable {
	var out []tables.CafeTable
	for _, t := range d.tables {
		if t.Status == tables.TableStatusOccupied {
			out = append(out, *cloneTable(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (d *memData) releaseTable(id int64) {
	t, ok := d.tables[id]
	if !ok {
		return
	}
	// Safe to re-apply on an already-available table.
	t.Status = tables.TableStatusAvailable
	t.OccupiedSince = nil
	t.ExpectedEnd = nil
	t.UpdatedAt = time.Now()
}

func (d *memData) findOrders(ids []int64) []tables.Order {
	var out []tables.Order
	for _, id := range ids {
		if o, ok := d.orders[id]; ok {
			out = append(out, *cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (d *memData) settleableOrdersByTable(tableId int64) []tables.Order {
	var out []tables.Order
	for _, o := range d.orders {
		if o.TableId == nil || *o.TableId != tableId {
			continue
		}
		if !slices.Contains(tables.SettleableOrderStatuses, o.Status) {
			continue
		}
		if d.hasCompletedPayment(o.Id) {
			continue
		}
		out = append(out, *cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (d *memData) hasCompletedPayment(orderId int64) bool {
	for _, p := range d.payments {
		if p.OrderId != nil && *p.OrderId == orderId && p.Status == tables.PaymentStatusCompleted {
			return true
		}
	}
	return false
}

func (d *memData) completeOrder(orderId int64) {
	if o, ok := d.orders[orderId]; ok {
		o.Status = tables.OrderStatusCompleted
		o.UpdatedAt = time.Now()
	}
}

func (d *memData) createPayment(payment *tables.Payment, owner *Memory) error {
	if payment.Id == 0 {
		payment.Id = owner.nextSeq()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	d.payments[payment.Id] = clonePayment(payment)
	return nil
}

func (d *memData) paymentsByBill(billId int64) []tables.Payment {
	var out []tables.Payment
	for _, p := range d.payments {
		if p.CombinedBillId != nil && *p.CombinedBillId == billId {
			out = append(out, *clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (d *memData) billPaymentsSince(since time.Time) []tables.Payment {
	var out []tables.Payment
	for _, p := range d.payments {
		if p.CombinedBillId != nil && !p.CreatedAt.Before(since) {
			out = append(out, *clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (d *memData) createCombinedBill(bill *tables.CombinedBill) error {
	now := time.Now()
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = now
	}
	bill.UpdatedAt = now
	d.bills[bill.Id] = cloneBill(bill)
	return nil
}

func (d *memData) createBillLineItems(items []tables.BillLineItem, owner *Memory) error {
	for i := range items {
		if items[i].Id == 0 {
			items[i].Id = owner.nextSeq()
		}
		d.lineItems[items[i].Id] = cloneLineItem(&items[i])
	}
	return nil
}

func (d *memData) findCombinedBill(id int64) *tables.CombinedBill {
	b, ok := d.bills[id]
	if !ok {
		return nil
	}
	out := cloneBill(b)
	out.LineItems = d.lineItemsForBill(id)
	return out
}

func (d *memData) lineItemsForBill(billId int64) []*tables.BillLineItem {
	var items []*tables.BillLineItem
	for _, li := range d.lineItems {
		if li.CombinedBillId == billId {
			items = append(items, cloneLineItem(li))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].TableNumber < items[j].TableNumber })
	return items
}

func (d *memData) listCombinedBills(status *tables.BillStatus) []tables.CombinedBill {
	var out []tables.CombinedBill
	for _, b := range d.bills {
		if status != nil && b.Status != *status {
			continue
		}
		bill := cloneBill(b)
		bill.LineItems = d.lineItemsForBill(b.Id)
		out = append(out, *bill)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (d *memData) listCombinedBillsSince(since time.Time) []tables.CombinedBill {
	var out []tables.CombinedBill
	for _, b := range d.bills {
		if b.CreatedAt.Before(since) {
			continue
		}
		bill := cloneBill(b)
		bill.LineItems = d.lineItemsForBill(b.Id)
		out = append(out, *bill)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (d *memData) pendingBillForOrders(orderIds []int64) *tables.CombinedBill {
	for _, li := range d.lineItems {
		bill, ok := d.bills[li.CombinedBillId]
		if !ok || bill.Status != tables.BillStatusPending {
			continue
		}
		for _, id := range li.OrderIds {
			if slices.Contains(orderIds, id) {
				out := cloneBill(bill)
				out.LineItems = d.lineItemsForBill(bill.Id)
				return out
			}
		}
	}
	return nil
}

func (d *memData) transitionBillStatus(id int64, from, to tables.BillStatus) bool {
	b, ok := d.bills[id]
	if !ok || b.Status != from {
		return false
	}
	now := time.Now()
	b.Status = to
	b.UpdatedAt = now
	if to == tables.BillStatusPaid {
		b.SettledAt = &now
	}
	return true
}

func (d *memData) appendBillNote(id int64, note string) {
	b, ok := d.bills[id]
	if !ok {
		return
	}
	if b.Note == "" {
		b.Note = note
	} else {
		b.Note = b.Note + "\n" + note
	}
	b.UpdatedAt = time.Now()
}

// -- snapshot / clone helpers --

func (d *memData) clone() *memData {
	out := &memData{
		tables:    make(map[int64]*tables.CafeTable, len(d.tables)),
		orders:    make(map[int64]*tables.Order, len(d.orders)),
		payments:  make(map[int64]*tables.Payment, len(d.payments)),
		bills:     make(map[int64]*tables.CombinedBill, len(d.bills)),
		lineItems: make(map[int64]*tables.BillLineItem, len(d.lineItems)),
	}
	for id, t := range d.tables {
		out.tables[id] = cloneTable(t)
	}
	for id, o := range d.orders {
		out.orders[id] = cloneOrder(o)
	}
	for id, p := range d.payments {
		out.payments[id] = clonePayment(p)
	}
	for id, b := range d.bills {
		out.bills[id] = cloneBill(b)
	}
	for id, li := range d.lineItems {
		out.lineItems[id] = cloneLineItem(li)
	}
	return out
}

func cloneTable(t *tables.CafeTable) *tables.CafeTable {
	out := *t
	out.OccupiedSince = cloneTime(t.OccupiedSince)
	out.ExpectedEnd = cloneTime(t.ExpectedEnd)
	return &out
}

func cloneOrder(o *tables.Order) *tables.Order {
	out := *o
	if o.TableId != nil {
		tableId := *o.TableId
		out.TableId = &tableId
	}
	if o.UserId != nil {
		userId := *o.UserId
		out.UserId = &userId
	}
	out.Details = make([]*tables.OrderDetail, len(o.Details))
	for i, detail := range o.Details {
		dCopy := *detail
		out.Details[i] = &dCopy
	}
	return &out
}

func clonePayment(p *tables.Payment) *tables.Payment {
	out := *p
	if p.OrderId != nil {
		orderId := *p.OrderId
		out.OrderId = &orderId
	}
	if p.CombinedBillId != nil {
		billId := *p.CombinedBillId
		out.CombinedBillId = &billId
	}
	out.PaidAt = cloneTime(p.PaidAt)
	return &out
}

func cloneBill(b *tables.CombinedBill) *tables.CombinedBill {
	out := *b
	out.SettledAt = cloneTime(b.SettledAt)
	out.LineItems = nil
	return &out
}

func cloneLineItem(li *tables.BillLineItem) *tables.BillLineItem {
	out := *li
	out.OrderIds = slices.Clone(li.OrderIds)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}
