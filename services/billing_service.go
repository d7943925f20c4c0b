package services

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"seeu_cafe_server/lib"
	"seeu_cafe_server/store"
	"seeu_cafe_server/structs"
	"seeu_cafe_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// BillingService composes combined bills, persists them, and serves the
// read side. Settlement itself lives in SettlementService.
type BillingService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	store  store.Store
	ids    *lib.IDGenerator
	cache  *CacheService
}

func NewBillingService(
	logger *gecho.Logger,
	cfg *structs.Config,
	st store.Store,
	ids *lib.IDGenerator,
	cache *CacheService,
) *BillingService {
	return &BillingService{
		logger: logger,
		cfg:    cfg,
		store:  st,
		ids:    ids,
		cache:  cache,
	}
}

// composition holds what composeBill computed, keyed for the ledger step.
type composition struct {
	preview       structs.BillPreview
	ordersByTable map[int64][]tables.Order
	tablesByIdOrd []*tables.CafeTable // in request order, deduplicated
}

// composeBill runs the shared validation and pricing against st, which is
// the pooled store for previews and the open transaction for creation.
// Validation failures come back as RequestErrors checked in a fixed order:
// bad set size, unknown table, no settleable orders.
func (bs *BillingService) composeBill(ctx context.Context, st store.Store, tableIds []int64) (*composition, error) {
	distinct := make([]int64, 0, len(tableIds))
	for _, id := range tableIds {
		if !slices.Contains(distinct, id) {
			distinct = append(distinct, id)
		}
	}

	if len(distinct) < 2 {
		return nil, lib.InvalidRequestf("a combined bill requires at least 2 distinct tables").
			With("table_ids", tableIds)
	}

	comp := &composition{
		ordersByTable: make(map[int64][]tables.Order, len(distinct)),
	}

	for _, id := range distinct {
		table, err := st.FindTable(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve table %d: %w", id, err)
		}
		if table == nil {
			return nil, lib.NotFoundf("table %d not found", id).With("table_id", id)
		}
		comp.tablesByIdOrd = append(comp.tablesByIdOrd, table)
	}

	var emptyTables []int
	for _, table := range comp.tablesByIdOrd {
		orders, err := st.SettleableOrdersByTable(ctx, table.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to load settleable orders for table %d: %w", table.Number, err)
		}
		if len(orders) == 0 {
			emptyTables = append(emptyTables, table.Number)
			continue
		}
		comp.ordersByTable[table.Id] = orders
	}

	if len(emptyTables) > 0 {
		sort.Ints(emptyTables)
		return nil, lib.InvalidRequestf("tables have no unpaid orders to settle").
			With("table_numbers", emptyTables)
	}

	rate := bs.cfg.Billing.ServiceChargeRate
	preview := structs.BillPreview{
		TableCount:        len(comp.tablesByIdOrd),
		ServiceChargeRate: rate,
		Tables:            make([]structs.TableBreakdown, 0, len(comp.tablesByIdOrd)),
	}

	for _, table := range comp.tablesByIdOrd {
		breakdown := structs.TableBreakdown{
			TableId:     table.Id,
			TableNumber: table.Number,
		}

		for _, order := range comp.ordersByTable[table.Id] {
			orderBreakdown := structs.OrderBreakdown{
				OrderId:     order.Id,
				OrderNumber: order.OrderNumber,
				TotalPrice:  order.TotalPrice,
				Items:       make([]structs.ItemBreakdown, 0, len(order.Details)),
			}
			for _, detail := range order.Details {
				orderBreakdown.Items = append(orderBreakdown.Items, structs.ItemBreakdown{
					Name:      detail.ItemName,
					Quantity:  detail.Quantity,
					UnitPrice: detail.UnitPrice,
					LineTotal: lib.Round2(float64(detail.Quantity) * detail.UnitPrice),
				})
				breakdown.ItemCount += detail.Quantity
			}

			breakdown.Subtotal += order.TotalPrice
			breakdown.OrderCount++
			breakdown.Orders = append(breakdown.Orders, orderBreakdown)
		}

		breakdown.Subtotal = lib.Round2(breakdown.Subtotal)
		preview.Subtotal += breakdown.Subtotal
		preview.TotalOrders += breakdown.OrderCount
		preview.TotalItems += breakdown.ItemCount
		preview.Tables = append(preview.Tables, breakdown)
	}

	preview.Subtotal = lib.Round2(preview.Subtotal)
	preview.ServiceCharge = lib.Round2(preview.Subtotal * rate)
	preview.FinalAmount = lib.Round2(preview.Subtotal + preview.ServiceCharge)
	preview.SuggestedSplitAmount = lib.Round2(preview.FinalAmount / float64(preview.TableCount))
	preview.AveragePerTable = lib.Round2(preview.Subtotal / float64(preview.TableCount))

	comp.preview = preview
	return comp, nil
}

// PreviewCombinedBill computes the advisory, non-persisted bill for a set
// of tables. Read-only; creation re-validates inside its own transaction.
func (bs *BillingService) PreviewCombinedBill(ctx context.Context, tableIds []int64) (*structs.BillPreview, error) {
	comp, err := bs.composeBill(ctx, bs.store, tableIds)
	if err != nil {
		return nil, err
	}
	return &comp.preview, nil
}

// CreateCombinedBill persists a combined bill and its per-table line items
// in one transaction. The preview is never trusted: validation and pricing
// run again inside the transaction so orders paid in the meantime drop out.
func (bs *BillingService) CreateCombinedBill(ctx context.Context, req *structs.CombineTablesRequest) (*structs.CreatedBill, error) {
	method := req.PaymentMethod
	if method == "" {
		method = tables.PaymentMethodCash
	}

	var bill *tables.CombinedBill

	err := bs.store.RunInTx(ctx, func(ctx context.Context, tx store.Store) error {
		comp, err := bs.composeBill(ctx, tx, req.TableIds)
		if err != nil {
			return err
		}

		var allOrderIds []int64
		for _, orders := range comp.ordersByTable {
			for _, order := range orders {
				allOrderIds = append(allOrderIds, order.Id)
			}
		}

		// An order may back at most one active bill at a time.
		existing, err := tx.PendingBillForOrders(ctx, allOrderIds)
		if err != nil {
			return err
		}
		if existing != nil {
			return lib.Conflictf("orders are already held by pending bill %s", existing.BillNumber).
				With("bill_id", existing.Id)
		}

		billId := bs.ids.NextID()
		bill = &tables.CombinedBill{
			Id:            billId,
			BillNumber:    bs.ids.BillNumber(billId),
			Status:        tables.BillStatusPending,
			Subtotal:      comp.preview.Subtotal,
			ServiceCharge: comp.preview.ServiceCharge,
			FinalAmount:   comp.preview.FinalAmount,
			PaymentMethod: method,
			CustomerName:  req.CustomerName,
			Note:          req.Notes,
		}

		if err := tx.CreateCombinedBill(ctx, bill); err != nil {
			return fmt.Errorf("failed to create combined bill: %w", err)
		}

		lineItems := make([]tables.BillLineItem, 0, len(comp.tablesByIdOrd))
		for _, table := range comp.tablesByIdOrd {
			orders := comp.ordersByTable[table.Id]
			orderIds := make([]int64, 0, len(orders))
			subtotal := 0.0
			for _, order := range orders {
				orderIds = append(orderIds, order.Id)
				subtotal += order.TotalPrice
			}

			lineItems = append(lineItems, tables.BillLineItem{
				Id:             bs.ids.NextID(),
				CombinedBillId: billId,
				TableId:        table.Id,
				TableNumber:    table.Number,
				Subtotal:       lib.Round2(subtotal),
				OrderIds:       orderIds,
			})
		}

		if err := tx.CreateBillLineItems(ctx, lineItems); err != nil {
			return fmt.Errorf("failed to create bill line items: %w", err)
		}

		for i := range lineItems {
			bill.LineItems = append(bill.LineItems, &lineItems[i])
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	bs.logger.Info("Combined bill created",
		gecho.Field("bill_number", bill.BillNumber),
		gecho.Field("tables", len(bill.LineItems)),
		gecho.Field("final_amount", bill.FinalAmount),
	)
	bs.invalidateStatistics()

	return &structs.CreatedBill{
		Bill: bill,
		Readiness: structs.SettlementReadiness{
			AmountDue:       bill.FinalAmount,
			SuggestedMethod: bill.PaymentMethod,
			CanSplit:        true,
		},
	}, nil
}

// GetCombinedBill loads one bill with its line items and the orders they
// reference, re-hydrated from the stored order-id lists.
func (bs *BillingService) GetCombinedBill(ctx context.Context, billId int64) (*structs.CombinedBillDetail, error) {
	bill, err := bs.store.FindCombinedBill(ctx, billId)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill %d: %w", billId, err)
	}
	if bill == nil {
		return nil, lib.NotFoundf("combined bill %d not found", billId).With("bill_id", billId)
	}

	detail := &structs.CombinedBillDetail{
		Bill:      bill,
		LineItems: make([]structs.LineItemDetail, 0, len(bill.LineItems)),
	}

	for _, li := range bill.LineItems {
		orders, err := bs.store.FindOrders(ctx, li.OrderIds)
		if err != nil {
			return nil, fmt.Errorf("failed to load orders for table %d: %w", li.TableNumber, err)
		}

		orderPtrs := make([]*tables.Order, len(orders))
		for i := range orders {
			orderPtrs[i] = &orders[i]
		}

		detail.LineItems = append(detail.LineItems, structs.LineItemDetail{
			LineItem: li,
			Orders:   orderPtrs,
		})
	}

	return detail, nil
}

// ListCombinedBills lists bills, optionally filtered by status.
func (bs *BillingService) ListCombinedBills(ctx context.Context, status *tables.BillStatus) ([]structs.CombinedBillSummary, error) {
	bills, err := bs.store.ListCombinedBills(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list combined bills: %w", err)
	}

	summaries := make([]structs.CombinedBillSummary, 0, len(bills))
	for _, bill := range bills {
		summaries = append(summaries, structs.CombinedBillSummary{
			Id:          bill.Id,
			BillNumber:  bill.BillNumber,
			Status:      bill.Status,
			FinalAmount: bill.FinalAmount,
			TableCount:  len(bill.LineItems),
			CreatedAt:   bill.CreatedAt,
			SettledAt:   bill.SettledAt,
		})
	}

	return summaries, nil
}

// CancelCombinedBill abandons a pending bill. Orders, payments and tables
// stay untouched: the underlying orders remain unpaid and eligible for a
// future bill or individual settlement.
func (bs *BillingService) CancelCombinedBill(ctx context.Context, billId int64, reason string) error {
	err := bs.store.RunInTx(ctx, func(ctx context.Context, tx store.Store) error {
		bill, err := tx.FindCombinedBill(ctx, billId)
		if err != nil {
			return fmt.Errorf("failed to load bill %d: %w", billId, err)
		}
		if bill == nil {
			return lib.NotFoundf("combined bill %d not found", billId).With("bill_id", billId)
		}
		if bill.Status != tables.BillStatusPending {
			return lib.Conflictf("combined bill %s is already %s", bill.BillNumber, bill.Status).
				With("status", bill.Status)
		}

		won, err := tx.TransitionBillStatus(ctx, billId, tables.BillStatusPending, tables.BillStatusCancelled)
		if err != nil {
			return err
		}
		if !won {
			return lib.Conflictf("combined bill %s was settled or cancelled concurrently", bill.BillNumber)
		}

		if reason != "" {
			if err := tx.AppendBillNote(ctx, billId, "cancelled: "+reason); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	bs.logger.Info("Combined bill cancelled", gecho.Field("bill_id", billId), gecho.Field("reason", reason))
	bs.invalidateStatistics()
	return nil
}
