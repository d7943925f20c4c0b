package services

import (
	"context"
	"fmt"
	"time"

	"seeu_cafe_server/lib"
	"seeu_cafe_server/store"
	"seeu_cafe_server/structs"
	"seeu_cafe_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// SettlementService closes out combined bills: payment in full or via
// splits, order completion and table release, all in one transaction.
type SettlementService struct {
	logger   *gecho.Logger
	cfg      *structs.Config
	store    store.Store
	ids      *lib.IDGenerator
	cache    *CacheService
	notifier *NotificationService
}

func NewSettlementService(
	logger *gecho.Logger,
	cfg *structs.Config,
	st store.Store,
	ids *lib.IDGenerator,
	cache *CacheService,
	notifier *NotificationService,
) *SettlementService {
	return &SettlementService{
		logger:   logger,
		cfg:      cfg,
		store:    st,
		ids:      ids,
		cache:    cache,
		notifier: notifier,
	}
}

// claimBill loads the bill and flips it pending -> paid, serializing
// concurrent settlements on the conditional update. Exactly one caller wins;
// everyone else gets a conflict.
func (ss *SettlementService) claimBill(ctx context.Context, tx store.Store, billId int64) (*tables.CombinedBill, error) {
	bill, err := tx.FindCombinedBill(ctx, billId)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill %d: %w", billId, err)
	}
	if bill == nil {
		return nil, lib.NotFoundf("combined bill %d not found", billId).With("bill_id", billId)
	}
	if bill.Status != tables.BillStatusPending {
		return nil, lib.Conflictf("combined bill %s is already %s", bill.BillNumber, bill.Status).
			With("status", bill.Status)
	}

	won, err := tx.TransitionBillStatus(ctx, billId, tables.BillStatusPending, tables.BillStatusPaid)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, lib.Conflictf("combined bill %s was settled or cancelled concurrently", bill.BillNumber)
	}

	return bill, nil
}

// settleLineItems completes every order on the bill, records a completed
// payment against each for the per-order history, and releases every table.
// refFor picks the transaction reference to stamp on a table's orders.
// Tables are released only after all orders are completed.
func (ss *SettlementService) settleLineItems(
	ctx context.Context,
	tx store.Store,
	bill *tables.CombinedBill,
	method tables.PaymentMethod,
	paidAt time.Time,
	refFor func(li *tables.BillLineItem) string,
) ([]int, error) {
	for _, li := range bill.LineItems {
		orders, err := tx.FindOrders(ctx, li.OrderIds)
		if err != nil {
			return nil, fmt.Errorf("failed to load orders for table %d: %w", li.TableNumber, err)
		}

		ref := refFor(li)
		for i := range orders {
			order := &orders[i]

			orderId := order.Id
			payment := &tables.Payment{
				Id:             ss.ids.NextID(),
				OrderId:        &orderId,
				Amount:         order.TotalPrice,
				Method:         method,
				Status:         tables.PaymentStatusCompleted,
				TransactionRef: ref,
				PaidAt:         &paidAt,
			}
			if err := tx.CreatePayment(ctx, payment); err != nil {
				return nil, fmt.Errorf("failed to record payment for order %d: %w", order.Id, err)
			}

			if err := tx.CompleteOrder(ctx, order.Id); err != nil {
				return nil, fmt.Errorf("failed to complete order %d: %w", order.Id, err)
			}
		}
	}

	released := make([]int, 0, len(bill.LineItems))
	for _, li := range bill.LineItems {
		if err := tx.ReleaseTable(ctx, li.TableId); err != nil {
			return nil, fmt.Errorf("failed to release table %d: %w", li.TableNumber, err)
		}
		released = append(released, li.TableNumber)
	}

	return released, nil
}

// PayCombinedBill settles a pending bill in full with a single payment.
func (ss *SettlementService) PayCombinedBill(ctx context.Context, billId int64, req *structs.PayBillRequest) (*structs.SettlementResult, error) {
	var result *structs.SettlementResult

	err := ss.store.RunInTx(ctx, func(ctx context.Context, tx store.Store) error {
		bill, err := ss.claimBill(ctx, tx, billId)
		if err != nil {
			return err
		}

		method := req.PaymentMethod
		if method == "" {
			method = bill.PaymentMethod
		}

		now := time.Now()
		ref := ss.ids.FullSettlementRef(billId)

		billPayment := &tables.Payment{
			Id:             ss.ids.NextID(),
			CombinedBillId: &bill.Id,
			Amount:         bill.FinalAmount,
			Method:         method,
			Status:         tables.PaymentStatusCompleted,
			TransactionRef: ref,
			Note:           req.Notes,
			PaidAt:         &now,
		}
		if err := tx.CreatePayment(ctx, billPayment); err != nil {
			return fmt.Errorf("failed to record bill payment: %w", err)
		}

		released, err := ss.settleLineItems(ctx, tx, bill, method, now, func(*tables.BillLineItem) string {
			return ref
		})
		if err != nil {
			return err
		}

		bill.Status = tables.BillStatusPaid
		bill.SettledAt = &now
		result = &structs.SettlementResult{
			Bill:           bill,
			Payments:       []*tables.Payment{billPayment},
			ReleasedTables: released,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ss.logger.Info("Combined bill settled in full",
		gecho.Field("bill_number", result.Bill.BillNumber),
		gecho.Field("amount", result.Bill.FinalAmount),
		gecho.Field("tables_released", len(result.ReleasedTables)),
	)
	ss.afterSettlement(result)

	return result, nil
}

// SplitPayCombinedBill settles a pending bill with multiple payments. The
// splits must cover the final amount exactly; who pays how much is up to
// the group, so a split may name any contributing table for any amount.
// Settlement is still atomic: either every order completes and every table
// releases, or nothing does.
func (ss *SettlementService) SplitPayCombinedBill(ctx context.Context, billId int64, req *structs.SplitPayRequest) (*structs.SettlementResult, error) {
	var result *structs.SettlementResult

	err := ss.store.RunInTx(ctx, func(ctx context.Context, tx store.Store) error {
		bill, err := ss.claimBill(ctx, tx, billId)
		if err != nil {
			return err
		}

		contributing := make(map[int64]*tables.BillLineItem, len(bill.LineItems))
		for _, li := range bill.LineItems {
			contributing[li.TableId] = li
		}

		var splitTotal float64
		for _, entry := range req.Splits {
			if _, ok := contributing[entry.TableId]; !ok {
				return lib.InvalidRequestf("table %d is not part of this bill", entry.TableId).
					With("table_id", entry.TableId)
			}
			splitTotal += entry.Amount
		}
		splitTotal = lib.Round2(splitTotal)

		if !lib.AmountsMatch(splitTotal, bill.FinalAmount) {
			return lib.InvalidRequestf("splits total %.2f does not match bill amount %.2f", splitTotal, bill.FinalAmount).
				With("splits_total", splitTotal).
				With("final_amount", bill.FinalAmount)
		}

		now := time.Now()

		splitRefs := make(map[int64]string, len(bill.LineItems))
		for _, li := range bill.LineItems {
			splitRefs[li.TableId] = ss.ids.SplitSettlementRef(billId, li.TableId)
		}

		payments := make([]*tables.Payment, 0, len(req.Splits))
		for _, entry := range req.Splits {
			method := entry.PaymentMethod
			if method == "" {
				method = bill.PaymentMethod
			}

			payment := &tables.Payment{
				Id:             ss.ids.NextID(),
				CombinedBillId: &bill.Id,
				Amount:         entry.Amount,
				Method:         method,
				Status:         tables.PaymentStatusCompleted,
				TransactionRef: splitRefs[entry.TableId],
				Note:           req.Notes,
				PaidAt:         &now,
			}
			if err := tx.CreatePayment(ctx, payment); err != nil {
				return fmt.Errorf("failed to record split payment for table %d: %w", entry.TableId, err)
			}
			payments = append(payments, payment)
		}

		// Every table settles together, including ones no split named.
		released, err := ss.settleLineItems(ctx, tx, bill, bill.PaymentMethod, now, func(li *tables.BillLineItem) string {
			return splitRefs[li.TableId]
		})
		if err != nil {
			return err
		}

		bill.Status = tables.BillStatusPaid
		bill.SettledAt = &now
		result = &structs.SettlementResult{
			Bill:           bill,
			Payments:       payments,
			ReleasedTables: released,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ss.logger.Info("Combined bill settled in splits",
		gecho.Field("bill_number", result.Bill.BillNumber),
		gecho.Field("splits", len(result.Payments)),
		gecho.Field("tables_released", len(result.ReleasedTables)),
	)
	ss.afterSettlement(result)

	return result, nil
}

// afterSettlement runs the post-commit side effects. None of them can fail
// the settlement; the bill is already paid.
func (ss *SettlementService) afterSettlement(result *structs.SettlementResult) {
	invalidateStatisticsCache(ss.cache, ss.logger)
	if ss.notifier != nil {
		ss.notifier.BillSettled(result.Bill, result.Payments)
		ss.notifier.TablesReleased(result.Bill, result.ReleasedTables)
	}
}
