package services

import (
	"context"
	"testing"
	"time"

	"seeu_cafe_server/lib"
	"seeu_cafe_server/store"
	"seeu_cafe_server/structs"
	"seeu_cafe_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billingFixture struct {
	store      *store.Memory
	billing    *BillingService
	settlement *SettlementService
}

// newBillingFixture seeds two occupied tables: table 5 with one served
// order of 350.00 and table 7 with two orders totalling 500.00. Combined
// subtotal 850.00, so with the 10% service charge the bill is 935.00.
func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()

	mem := store.NewMemory()
	seedDefaultTables(mem)

	logger := gecho.NewDefaultLogger()
	cfg := &structs.Config{
		Billing: &structs.BillingConfig{
			ServiceChargeRate: 0.10,
			SnowflakeNode:     1,
			StatisticsTTL:     time.Minute,
		},
	}

	ids, err := lib.NewIDGenerator(cfg.Billing.SnowflakeNode)
	require.NoError(t, err)

	return &billingFixture{
		store:      mem,
		billing:    NewBillingService(logger, cfg, mem, ids, nil),
		settlement: NewSettlementService(logger, cfg, mem, ids, nil, nil),
	}
}

func seedDefaultTables(mem *store.Memory) {
	occupied := time.Now().Add(-90 * time.Minute)

	mem.SeedTable(&tables.CafeTable{
		Id: 1, Number: 5, Capacity: 4,
		Status: tables.TableStatusOccupied, OccupiedSince: &occupied,
	})
	mem.SeedTable(&tables.CafeTable{
		Id: 2, Number: 7, Capacity: 2,
		Status: tables.TableStatusOccupied, OccupiedSince: &occupied,
	})
	mem.SeedTable(&tables.CafeTable{
		Id: 3, Number: 9, Capacity: 6,
		Status: tables.TableStatusOccupied, OccupiedSince: &occupied,
	})

	seedOrder(mem, 101, 1, "ORD-101", 350.00, tables.OrderStatusServed, []*tables.OrderDetail{
		{Id: 1, OrderId: 101, ItemName: "Khao Soi", Quantity: 2, UnitPrice: 120.00},
		{Id: 2, OrderId: 101, ItemName: "Iced Latte", Quantity: 2, UnitPrice: 55.00},
	})
	seedOrder(mem, 102, 2, "ORD-102", 300.00, tables.OrderStatusCompleted, []*tables.OrderDetail{
		{Id: 3, OrderId: 102, ItemName: "Pad Thai", Quantity: 2, UnitPrice: 150.00},
	})
	seedOrder(mem, 103, 2, "ORD-103", 200.00, tables.OrderStatusReady, []*tables.OrderDetail{
		{Id: 4, OrderId: 103, ItemName: "Mango Sticky Rice", Quantity: 2, UnitPrice: 100.00},
	})
}

var orderSeedClock = time.Now().Add(-time.Hour)

func seedOrder(mem *store.Memory, id, tableId int64, number string, total float64, status tables.OrderStatus, details []*tables.OrderDetail) {
	orderSeedClock = orderSeedClock.Add(time.Minute)
	mem.SeedOrder(&tables.Order{
		Id:          id,
		OrderNumber: number,
		TableId:     &tableId,
		TotalPrice:  total,
		Status:      status,
		CreatedAt:   orderSeedClock,
		UpdatedAt:   orderSeedClock,
		Details:     details,
	})
}

func TestPreviewCombinedBill(t *testing.T) {
	fx := newBillingFixture(t)

	preview, err := fx.billing.PreviewCombinedBill(context.Background(), []int64{1, 2})
	require.NoError(t, err)

	assert.Equal(t, 2, preview.TableCount)
	assert.Equal(t, 850.00, preview.Subtotal)
	assert.Equal(t, 0.10, preview.ServiceChargeRate)
	assert.Equal(t, 85.00, preview.ServiceCharge)
	assert.Equal(t, 935.00, preview.FinalAmount)
	assert.Equal(t, 467.50, preview.SuggestedSplitAmount)
	assert.Equal(t, 3, preview.TotalOrders)
	assert.Equal(t, 8, preview.TotalItems)
	assert.Equal(t, 425.00, preview.AveragePerTable)

	require.Len(t, preview.Tables, 2)
	assert.Equal(t, 5, preview.Tables[0].TableNumber)
	assert.Equal(t, 350.00, preview.Tables[0].Subtotal)
	assert.Equal(t, 7, preview.Tables[1].TableNumber)
	assert.Equal(t, 500.00, preview.Tables[1].Subtotal)
	assert.Equal(t, 2, preview.Tables[1].OrderCount)
}

func TestPreviewCombinedBillIsRepeatable(t *testing.T) {
	fx := newBillingFixture(t)

	first, err := fx.billing.PreviewCombinedBill(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	second, err := fx.billing.PreviewCombinedBill(context.Background(), []int64{1, 2})
	require.NoError(t, err)

	// Previews persist nothing, so repeating one changes nothing.
	assert.Equal(t, first, second)
	bills, err := fx.store.ListCombinedBills(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, bills)
}

func TestPreviewCombinedBillRejectsSingleTable(t *testing.T) {
	fx := newBillingFixture(t)

	_, err := fx.billing.PreviewCombinedBill(context.Background(), []int64{1, 1, 1})
	require.Error(t, err)

	reqErr, ok := lib.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, lib.KindInvalidRequest, reqErr.Kind)
}

func TestPreviewCombinedBillUnknownTable(t *testing.T) {
	fx := newBillingFixture(t)

	_, err := fx.billing.PreviewCombinedBill(context.Background(), []int64{1, 99})
	require.Error(t, err)

	reqErr, ok := lib.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, lib.KindNotFound, reqErr.Kind)
}

func TestPreviewCombinedBillTableWithoutUnpaidOrders(t *testing.T) {
	fx := newBillingFixture(t)

	// Table 9 is occupied but has no orders at all.
	_, err := fx.billing.PreviewCombinedBill(context.Background(), []int64{1, 3})
	require.Error(t, err)

	reqErr, ok := lib.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, lib.KindInvalidRequest, reqErr.Kind)
	assert.Equal(t, []int{9}, reqErr.Data["table_numbers"])
}

func TestCreateCombinedBill(t *testing.T) {
	fx := newBillingFixture(t)

	created, err := fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds:      []int64{1, 2},
		PaymentMethod: tables.PaymentMethodCard,
		CustomerName:  "Somchai",
	})
	require.NoError(t, err)

	bill := created.Bill
	assert.NotZero(t, bill.Id)
	assert.NotEmpty(t, bill.BillNumber)
	assert.Equal(t, tables.BillStatusPending, bill.Status)
	assert.Equal(t, 850.00, bill.Subtotal)
	assert.Equal(t, 85.00, bill.ServiceCharge)
	assert.Equal(t, 935.00, bill.FinalAmount)
	assert.Equal(t, tables.PaymentMethodCard, bill.PaymentMethod)
	assert.Nil(t, bill.SettledAt)

	require.Len(t, bill.LineItems, 2)
	assert.Equal(t, []int64{101}, bill.LineItems[0].OrderIds)
	assert.Equal(t, 350.00, bill.LineItems[0].Subtotal)
	assert.ElementsMatch(t, []int64{102, 103}, bill.LineItems[1].OrderIds)
	assert.Equal(t, 500.00, bill.LineItems[1].Subtotal)

	assert.Equal(t, 935.00, created.Readiness.AmountDue)
	assert.Equal(t, tables.PaymentMethodCard, created.Readiness.SuggestedMethod)
	assert.True(t, created.Readiness.CanSplit)

	// Creation alone touches neither orders nor tables.
	stored, err := fx.store.FindCombinedBill(context.Background(), bill.Id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, tables.BillStatusPending, stored.Status)

	table, err := fx.store.FindTable(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, tables.TableStatusOccupied, table.Status)
}

func TestCreateCombinedBillDefaultsToCash(t *testing.T) {
	fx := newBillingFixture(t)

	created, err := fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds: []int64{1, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, tables.PaymentMethodCash, created.Bill.PaymentMethod)
}

func TestCreateCombinedBillConflictsOnHeldOrders(t *testing.T) {
	fx := newBillingFixture(t)

	_, err := fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds: []int64{1, 2},
	})
	require.NoError(t, err)

	_, err = fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds: []int64{1, 2},
	})
	require.Error(t, err)

	reqErr, ok := lib.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, lib.KindConflict, reqErr.Kind)

	bills, err := fx.store.ListCombinedBills(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, bills, 1)
}

func TestGetCombinedBill(t *testing.T) {
	fx := newBillingFixture(t)

	created, err := fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds: []int64{1, 2},
	})
	require.NoError(t, err)

	detail, err := fx.billing.GetCombinedBill(context.Background(), created.Bill.Id)
	require.NoError(t, err)

	assert.Equal(t, created.Bill.BillNumber, detail.Bill.BillNumber)
	require.Len(t, detail.LineItems, 2)
	require.Len(t, detail.LineItems[0].Orders, 1)
	assert.Equal(t, "ORD-101", detail.LineItems[0].Orders[0].OrderNumber)
	require.Len(t, detail.LineItems[1].Orders, 2)
}

func TestGetCombinedBillNotFound(t *testing.T) {
	fx := newBillingFixture(t)

	_, err := fx.billing.GetCombinedBill(context.Background(), 424242)
	require.Error(t, err)

	reqErr, ok := lib.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, lib.KindNotFound, reqErr.Kind)
}

func TestListCombinedBillsByStatus(t *testing.T) {
	fx := newBillingFixture(t)

	created, err := fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds: []int64{1, 2},
	})
	require.NoError(t, err)

	pending := tables.BillStatusPending
	summaries, err := fx.billing.ListCombinedBills(context.Background(), &pending)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, created.Bill.BillNumber, summaries[0].BillNumber)
	assert.Equal(t, 2, summaries[0].TableCount)

	paid := tables.BillStatusPaid
	summaries, err = fx.billing.ListCombinedBills(context.Background(), &paid)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestCancelCombinedBill(t *testing.T) {
	fx := newBillingFixture(t)

	created, err := fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds: []int64{1, 2},
	})
	require.NoError(t, err)

	err = fx.billing.CancelCombinedBill(context.Background(), created.Bill.Id, "party changed their mind")
	require.NoError(t, err)

	bill, err := fx.store.FindCombinedBill(context.Background(), created.Bill.Id)
	require.NoError(t, err)
	assert.Equal(t, tables.BillStatusCancelled, bill.Status)
	assert.Contains(t, bill.Note, "party changed their mind")

	// Orders stay unpaid and tables stay occupied, so the party can be
	// re-billed later.
	orders, err := fx.store.SettleableOrdersByTable(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	table, err := fx.store.FindTable(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, tables.TableStatusOccupied, table.Status)
	assert.Empty(t, fx.store.Payments())

	// The orders are free for a new combined bill again.
	_, err = fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds: []int64{1, 2},
	})
	require.NoError(t, err)
}

func TestCancelCombinedBillOnlyWhenPending(t *testing.T) {
	fx := newBillingFixture(t)

	created, err := fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds: []int64{1, 2},
	})
	require.NoError(t, err)

	_, err = fx.settlement.PayCombinedBill(context.Background(), created.Bill.Id, &structs.PayBillRequest{})
	require.NoError(t, err)

	err = fx.billing.CancelCombinedBill(context.Background(), created.Bill.Id, "too late")
	require.Error(t, err)

	reqErr, ok := lib.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, lib.KindConflict, reqErr.Kind)
}

func TestGetBillStatistics(t *testing.T) {
	fx := newBillingFixture(t)

	first, err := fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds: []int64{1, 2},
	})
	require.NoError(t, err)
	_, err = fx.settlement.PayCombinedBill(context.Background(), first.Bill.Id, &structs.PayBillRequest{})
	require.NoError(t, err)

	// Fresh orders for the released tables and a split settlement.
	seedOrder(fx.store, 201, 1, "ORD-201", 400.00, tables.OrderStatusServed, nil)
	seedOrder(fx.store, 202, 2, "ORD-202", 600.00, tables.OrderStatusServed, nil)

	second, err := fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds: []int64{1, 2},
	})
	require.NoError(t, err)
	_, err = fx.settlement.SplitPayCombinedBill(context.Background(), second.Bill.Id, &structs.SplitPayRequest{
		Splits: []structs.SplitEntry{
			{TableId: 1, Amount: 550.00},
			{TableId: 2, Amount: 550.00},
		},
	})
	require.NoError(t, err)

	stats, err := fx.billing.GetBillStatistics(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, stats.WindowDays)
	assert.Equal(t, 2, stats.TotalBills)
	assert.Equal(t, 2, stats.CountsByStatus[string(tables.BillStatusPaid)])
	assert.Equal(t, 2035.00, stats.PaidRevenue)
	assert.Equal(t, 2.0, stats.AverageTablesPerBill)
	assert.Equal(t, 1, stats.FullSettlements)
	assert.Equal(t, 1, stats.SplitSettlements)
	assert.Equal(t, 0.5, stats.SplitRatio)
}

func TestGetBillStatisticsWindowsByCreationTime(t *testing.T) {
	fx := newBillingFixture(t)

	created, err := fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds: []int64{1, 2},
	})
	require.NoError(t, err)
	_, err = fx.settlement.PayCombinedBill(context.Background(), created.Bill.Id, &structs.PayBillRequest{})
	require.NoError(t, err)

	// Push the bill's creation outside the default window. Its payments
	// stay recent, so this also checks that settlement counts follow the
	// bill cohort rather than the payment timestamps.
	bill, err := fx.store.FindCombinedBill(context.Background(), created.Bill.Id)
	require.NoError(t, err)
	bill.CreatedAt = time.Now().AddDate(0, 0, -30)
	fx.store.SeedBill(bill)

	stats, err := fx.billing.GetBillStatistics(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalBills)
	assert.Equal(t, 0.0, stats.PaidRevenue)
	assert.Equal(t, 0, stats.FullSettlements)
	assert.Equal(t, 0.0, stats.SplitRatio)

	wide, err := fx.billing.GetBillStatistics(context.Background(), 60)
	require.NoError(t, err)
	assert.Equal(t, 1, wide.TotalBills)
	assert.Equal(t, 935.00, wide.PaidRevenue)
	assert.Equal(t, 1, wide.FullSettlements)
}
