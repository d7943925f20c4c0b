package services

import (
	"context"
	"strings"
	"testing"

	"seeu_cafe_server/lib"
	"seeu_cafe_server/structs"
	"seeu_cafe_server/structs/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPendingBill(t *testing.T, fx *billingFixture) *tables.CombinedBill {
	t.Helper()

	created, err := fx.billing.CreateCombinedBill(context.Background(), &structs.CombineTablesRequest{
		TableIds:      []int64{1, 2},
		PaymentMethod: tables.PaymentMethodCash,
	})
	require.NoError(t, err)
	return created.Bill
}

func TestPayCombinedBillInFull(t *testing.T) {
	fx := newBillingFixture(t)
	bill := createPendingBill(t, fx)

	result, err := fx.settlement.PayCombinedBill(context.Background(), bill.Id, &structs.PayBillRequest{
		PaymentMethod: tables.PaymentMethodQR,
	})
	require.NoError(t, err)

	assert.Equal(t, tables.BillStatusPaid, result.Bill.Status)
	require.NotNil(t, result.Bill.SettledAt)
	assert.ElementsMatch(t, []int{5, 7}, result.ReleasedTables)

	require.Len(t, result.Payments, 1)
	payment := result.Payments[0]
	assert.Equal(t, 935.00, payment.Amount)
	assert.Equal(t, tables.PaymentMethodQR, payment.Method)
	assert.Equal(t, tables.PaymentStatusCompleted, payment.Status)
	assert.True(t, strings.HasPrefix(payment.TransactionRef, lib.FullSettlementRefPrefix+":"))

	// Every order is completed and carries its own completed payment row.
	for _, orderId := range []int64{101, 102, 103} {
		orders, err := fx.store.FindOrders(context.Background(), []int64{orderId})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, tables.OrderStatusCompleted, orders[0].Status)
	}

	var orderTotal float64
	var billTotal float64
	for _, p := range fx.store.Payments() {
		assert.Equal(t, tables.PaymentStatusCompleted, p.Status)
		if p.OrderId != nil {
			orderTotal += p.Amount
		}
		if p.CombinedBillId != nil {
			billTotal += p.Amount
		}
	}
	assert.Equal(t, 850.00, orderTotal)
	assert.Equal(t, 935.00, billTotal)

	// Both tables went back to available in the same settlement.
	for _, tableId := range []int64{1, 2} {
		table, err := fx.store.FindTable(context.Background(), tableId)
		require.NoError(t, err)
		assert.Equal(t, tables.TableStatusAvailable, table.Status)
		assert.Nil(t, table.OccupiedSince)
	}

	// Nothing settleable remains.
	for _, tableId := range []int64{1, 2} {
		orders, err := fx.store.SettleableOrdersByTable(context.Background(), tableId)
		require.NoError(t, err)
		assert.Empty(t, orders)
	}
}

func TestPayCombinedBillDefaultsToBillMethod(t *testing.T) {
	fx := newBillingFixture(t)
	bill := createPendingBill(t, fx)

	result, err := fx.settlement.PayCombinedBill(context.Background(), bill.Id, &structs.PayBillRequest{})
	require.NoError(t, err)
	assert.Equal(t, tables.PaymentMethodCash, result.Payments[0].Method)
}

func TestPayCombinedBillTwiceConflicts(t *testing.T) {
	fx := newBillingFixture(t)
	bill := createPendingBill(t, fx)

	_, err := fx.settlement.PayCombinedBill(context.Background(), bill.Id, &structs.PayBillRequest{})
	require.NoError(t, err)

	paymentsBefore := len(fx.store.Payments())

	_, err = fx.settlement.PayCombinedBill(context.Background(), bill.Id, &structs.PayBillRequest{})
	require.Error(t, err)

	reqErr, ok := lib.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, lib.KindConflict, reqErr.Kind)

	// The retry recorded nothing.
	assert.Len(t, fx.store.Payments(), paymentsBefore)
}

func TestPayCombinedBillNotFound(t *testing.T) {
	fx := newBillingFixture(t)

	_, err := fx.settlement.PayCombinedBill(context.Background(), 424242, &structs.PayBillRequest{})
	require.Error(t, err)

	reqErr, ok := lib.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, lib.KindNotFound, reqErr.Kind)
}

func TestPayCombinedBillAfterCancelConflicts(t *testing.T) {
	fx := newBillingFixture(t)
	bill := createPendingBill(t, fx)

	require.NoError(t, fx.billing.CancelCombinedBill(context.Background(), bill.Id, ""))

	_, err := fx.settlement.PayCombinedBill(context.Background(), bill.Id, &structs.PayBillRequest{})
	require.Error(t, err)

	reqErr, ok := lib.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, lib.KindConflict, reqErr.Kind)
}

func TestSplitPayCombinedBill(t *testing.T) {
	fx := newBillingFixture(t)
	bill := createPendingBill(t, fx)

	result, err := fx.settlement.SplitPayCombinedBill(context.Background(), bill.Id, &structs.SplitPayRequest{
		Splits: []structs.SplitEntry{
			{TableId: 1, Amount: 467.50, PaymentMethod: tables.PaymentMethodCard},
			{TableId: 2, Amount: 467.50, PaymentMethod: tables.PaymentMethodCash},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, tables.BillStatusPaid, result.Bill.Status)
	assert.ElementsMatch(t, []int{5, 7}, result.ReleasedTables)

	require.Len(t, result.Payments, 2)
	var total float64
	for _, p := range result.Payments {
		total += p.Amount
		assert.Equal(t, tables.PaymentStatusCompleted, p.Status)
		assert.True(t, strings.HasPrefix(p.TransactionRef, lib.SplitSettlementRefPrefix+":"))
	}
	assert.True(t, lib.AmountsMatch(total, bill.FinalAmount))
	assert.Equal(t, tables.PaymentMethodCard, result.Payments[0].Method)
	assert.Equal(t, tables.PaymentMethodCash, result.Payments[1].Method)

	for _, tableId := range []int64{1, 2} {
		table, err := fx.store.FindTable(context.Background(), tableId)
		require.NoError(t, err)
		assert.Equal(t, tables.TableStatusAvailable, table.Status)
	}
}

// A split does not have to mirror the per-table subtotals: one table may
// carry the whole bill and every table still releases.
func TestSplitPayCombinedBillUnevenCoverage(t *testing.T) {
	fx := newBillingFixture(t)
	bill := createPendingBill(t, fx)

	result, err := fx.settlement.SplitPayCombinedBill(context.Background(), bill.Id, &structs.SplitPayRequest{
		Splits: []structs.SplitEntry{
			{TableId: 1, Amount: 935.00},
		},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{5, 7}, result.ReleasedTables)
	orders, err := fx.store.FindOrders(context.Background(), []int64{102, 103})
	require.NoError(t, err)
	for _, order := range orders {
		assert.Equal(t, tables.OrderStatusCompleted, order.Status)
	}
}

func TestSplitPayCombinedBillDuplicateTableEntries(t *testing.T) {
	fx := newBillingFixture(t)
	bill := createPendingBill(t, fx)

	// Two guests at table 5 pay separately.
	result, err := fx.settlement.SplitPayCombinedBill(context.Background(), bill.Id, &structs.SplitPayRequest{
		Splits: []structs.SplitEntry{
			{TableId: 1, Amount: 400.00},
			{TableId: 1, Amount: 300.00},
			{TableId: 2, Amount: 235.00},
		},
	})
	require.NoError(t, err)
	assert.Len(t, result.Payments, 3)
}

func TestSplitPayCombinedBillSumMismatch(t *testing.T) {
	fx := newBillingFixture(t)
	bill := createPendingBill(t, fx)

	_, err := fx.settlement.SplitPayCombinedBill(context.Background(), bill.Id, &structs.SplitPayRequest{
		Splits: []structs.SplitEntry{
			{TableId: 1, Amount: 450.00},
			{TableId: 2, Amount: 450.00},
		},
	})
	require.Error(t, err)

	reqErr, ok := lib.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, lib.KindInvalidRequest, reqErr.Kind)
	assert.Equal(t, 900.00, reqErr.Data["splits_total"])
	assert.Equal(t, 935.00, reqErr.Data["final_amount"])

	// The failed attempt left everything untouched: bill pending, no
	// payments, orders unpaid, tables occupied.
	stored, err := fx.store.FindCombinedBill(context.Background(), bill.Id)
	require.NoError(t, err)
	assert.Equal(t, tables.BillStatusPending, stored.Status)
	assert.Empty(t, fx.store.Payments())

	for _, tableId := range []int64{1, 2} {
		table, err := fx.store.FindTable(context.Background(), tableId)
		require.NoError(t, err)
		assert.Equal(t, tables.TableStatusOccupied, table.Status)
	}

	orders, err := fx.store.SettleableOrdersByTable(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestSplitPayCombinedBillUnknownTable(t *testing.T) {
	fx := newBillingFixture(t)
	bill := createPendingBill(t, fx)

	_, err := fx.settlement.SplitPayCombinedBill(context.Background(), bill.Id, &structs.SplitPayRequest{
		Splits: []structs.SplitEntry{
			{TableId: 1, Amount: 467.50},
			{TableId: 99, Amount: 467.50},
		},
	})
	require.Error(t, err)

	reqErr, ok := lib.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, lib.KindInvalidRequest, reqErr.Kind)

	stored, err := fx.store.FindCombinedBill(context.Background(), bill.Id)
	require.NoError(t, err)
	assert.Equal(t, tables.BillStatusPending, stored.Status)
	assert.Empty(t, fx.store.Payments())
}

func TestSplitTolerateSubCentRounding(t *testing.T) {
	fx := newBillingFixture(t)
	bill := createPendingBill(t, fx)

	// 311.67 * 3 = 935.01, within the one-cent tolerance of 935.00.
	result, err := fx.settlement.SplitPayCombinedBill(context.Background(), bill.Id, &structs.SplitPayRequest{
		Splits: []structs.SplitEntry{
			{TableId: 1, Amount: 311.67},
			{TableId: 1, Amount: 311.67},
			{TableId: 2, Amount: 311.67},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, tables.BillStatusPaid, result.Bill.Status)
}
