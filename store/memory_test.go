package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"seeu_cafe_server/structs/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemory(t *testing.T) *Memory {
	t.Helper()

	mem := NewMemory()
	occupied := time.Now().Add(-time.Hour)
	mem.SeedTable(&tables.CafeTable{
		Id: 1, Number: 5, Capacity: 4,
		Status: tables.TableStatusOccupied, OccupiedSince: &occupied,
	})

	tableId := int64(1)
	mem.SeedOrder(&tables.Order{
		Id: 101, OrderNumber: "ORD-101", TableId: &tableId,
		TotalPrice: 350.00, Status: tables.OrderStatusServed,
		CreatedAt: time.Now().Add(-30 * time.Minute),
	})
	return mem
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	mem := seedMemory(t)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := mem.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		require.NoError(t, tx.CompleteOrder(ctx, 101))
		require.NoError(t, tx.ReleaseTable(ctx, 1))
		orderId := int64(101)
		require.NoError(t, tx.CreatePayment(ctx, &tables.Payment{
			OrderId: &orderId, Amount: 350.00,
			Method: tables.PaymentMethodCash, Status: tables.PaymentStatusCompleted,
		}))
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// Everything the closure did was rolled back.
	orders, err := mem.FindOrders(ctx, []int64{101})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, tables.OrderStatusServed, orders[0].Status)

	table, err := mem.FindTable(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, tables.TableStatusOccupied, table.Status)
	assert.Empty(t, mem.Payments())
}

func TestRunInTxCommits(t *testing.T) {
	mem := seedMemory(t)
	ctx := context.Background()

	err := mem.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		return tx.CompleteOrder(ctx, 101)
	})
	require.NoError(t, err)

	orders, err := mem.FindOrders(ctx, []int64{101})
	require.NoError(t, err)
	assert.Equal(t, tables.OrderStatusCompleted, orders[0].Status)
}

func TestTransitionBillStatusIsConditional(t *testing.T) {
	mem := seedMemory(t)
	ctx := context.Background()

	bill := &tables.CombinedBill{
		Id: 9000, BillNumber: "CB-9000",
		Status: tables.BillStatusPending, FinalAmount: 385.00,
	}
	require.NoError(t, mem.CreateCombinedBill(ctx, bill))

	won, err := mem.TransitionBillStatus(ctx, 9000, tables.BillStatusPending, tables.BillStatusPaid)
	require.NoError(t, err)
	assert.True(t, won)

	// The second transition finds the bill no longer pending and loses.
	won, err = mem.TransitionBillStatus(ctx, 9000, tables.BillStatusPending, tables.BillStatusPaid)
	require.NoError(t, err)
	assert.False(t, won)

	stored, err := mem.FindCombinedBill(ctx, 9000)
	require.NoError(t, err)
	assert.Equal(t, tables.BillStatusPaid, stored.Status)
	assert.NotNil(t, stored.SettledAt)
}

func TestReleaseTableIsIdempotent(t *testing.T) {
	mem := seedMemory(t)
	ctx := context.Background()

	require.NoError(t, mem.ReleaseTable(ctx, 1))
	require.NoError(t, mem.ReleaseTable(ctx, 1))

	table, err := mem.FindTable(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, tables.TableStatusAvailable, table.Status)
	assert.Nil(t, table.OccupiedSince)
}

func TestPendingBillForOrders(t *testing.T) {
	mem := seedMemory(t)
	ctx := context.Background()

	bill := &tables.CombinedBill{Id: 9000, BillNumber: "CB-9000", Status: tables.BillStatusPending}
	require.NoError(t, mem.CreateCombinedBill(ctx, bill))
	require.NoError(t, mem.CreateBillLineItems(ctx, []tables.BillLineItem{
		{Id: 1, CombinedBillId: 9000, TableId: 1, TableNumber: 5, Subtotal: 350.00, OrderIds: []int64{101}},
	}))

	held, err := mem.PendingBillForOrders(ctx, []int64{101, 999})
	require.NoError(t, err)
	require.NotNil(t, held)
	assert.Equal(t, "CB-9000", held.BillNumber)

	held, err = mem.PendingBillForOrders(ctx, []int64{999})
	require.NoError(t, err)
	assert.Nil(t, held)

	// Once the bill leaves pending it no longer holds its orders.
	_, err = mem.TransitionBillStatus(ctx, 9000, tables.BillStatusPending, tables.BillStatusCancelled)
	require.NoError(t, err)

	held, err = mem.PendingBillForOrders(ctx, []int64{101})
	require.NoError(t, err)
	assert.Nil(t, held)
}

func TestSettleableOrdersByTableFilters(t *testing.T) {
	mem := seedMemory(t)
	ctx := context.Background()

	tableId := int64(1)
	mem.SeedOrder(&tables.Order{
		Id: 102, OrderNumber: "ORD-102", TableId: &tableId,
		TotalPrice: 90.00, Status: tables.OrderStatusPreparing,
		CreatedAt: time.Now(),
	})

	orders, err := mem.SettleableOrdersByTable(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(101), orders[0].Id)

	// A completed payment removes the order from the settleable set.
	orderId := int64(101)
	require.NoError(t, mem.CreatePayment(ctx, &tables.Payment{
		OrderId: &orderId, Amount: 350.00,
		Method: tables.PaymentMethodCash, Status: tables.PaymentStatusCompleted,
	}))

	orders, err = mem.SettleableOrdersByTable(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
