package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"seeu_cafe_server/lib"
	"seeu_cafe_server/structs"
	"seeu_cafe_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

const statsCacheKeyPrefix = "billing:stats:"

// statsKeys remembers which statistics windows were cached so invalidation
// after a write can clear exactly those keys.
var statsKeys sync.Map

// GetBillStatistics aggregates combined-bill activity over the trailing
// window. The window selects bills by creation time, not settlement time:
// a bill created before the window is excluded even if it settled inside
// it, so counts, revenue and the split ratio all describe the same bill
// cohort. Results are cached in redis and recomputed after any bill write.
func (bs *BillingService) GetBillStatistics(ctx context.Context, days int) (*structs.BillStatistics, error) {
	cacheKey := fmt.Sprintf("%s%d", statsCacheKeyPrefix, days)

	if bs.cache != nil {
		var cached structs.BillStatistics
		if hit, err := bs.cache.GetJSON(cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	since := time.Now().AddDate(0, 0, -days)

	bills, err := bs.store.ListCombinedBillsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills for statistics: %w", err)
	}

	payments, err := bs.store.BillPaymentsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill payments for statistics: %w", err)
	}

	stats := &structs.BillStatistics{
		WindowDays:     days,
		TotalBills:     len(bills),
		CountsByStatus: make(map[string]int, 3),
	}

	cohort := make(map[int64]struct{}, len(bills))
	var tableSum int
	for _, bill := range bills {
		cohort[bill.Id] = struct{}{}
		stats.CountsByStatus[string(bill.Status)]++
		tableSum += len(bill.LineItems)
		if bill.Status == tables.BillStatusPaid {
			stats.PaidRevenue += bill.FinalAmount
		}
	}
	stats.PaidRevenue = lib.Round2(stats.PaidRevenue)
	if len(bills) > 0 {
		stats.AverageTablesPerBill = lib.Round2(float64(tableSum) / float64(len(bills)))
	}

	// The transaction reference records how each completed settlement was
	// taken, so the split ratio falls out of the payment history. Split
	// settlements produce multiple rows per bill; count distinct bills.
	fullBills := make(map[int64]struct{})
	splitBills := make(map[int64]struct{})
	for _, payment := range payments {
		if payment.CombinedBillId == nil || payment.Status != tables.PaymentStatusCompleted {
			continue
		}
		if _, ok := cohort[*payment.CombinedBillId]; !ok {
			continue
		}
		switch {
		case strings.HasPrefix(payment.TransactionRef, lib.FullSettlementRefPrefix+":"):
			fullBills[*payment.CombinedBillId] = struct{}{}
		case strings.HasPrefix(payment.TransactionRef, lib.SplitSettlementRefPrefix+":"):
			splitBills[*payment.CombinedBillId] = struct{}{}
		}
	}
	stats.FullSettlements = len(fullBills)
	stats.SplitSettlements = len(splitBills)
	if settled := stats.FullSettlements + stats.SplitSettlements; settled > 0 {
		stats.SplitRatio = lib.Round2(float64(stats.SplitSettlements) / float64(settled))
	}

	if bs.cache != nil {
		if err := bs.cache.SetJSON(cacheKey, stats, bs.cfg.Billing.StatisticsTTL); err != nil {
			bs.logger.Warn("Failed to cache bill statistics", gecho.Field("error", err.Error()))
		} else {
			statsKeys.Store(cacheKey, struct{}{})
		}
	}

	return stats, nil
}

func (bs *BillingService) invalidateStatistics() {
	invalidateStatisticsCache(bs.cache, bs.logger)
}

// invalidateStatisticsCache clears every cached statistics window. Called
// after bill creation, settlement and cancellation; failures only get logged.
func invalidateStatisticsCache(cache *CacheService, logger *gecho.Logger) {
	if cache == nil {
		return
	}
	statsKeys.Range(func(key, _ any) bool {
		cacheKey := key.(string)
		if err := cache.Delete(cacheKey); err != nil {
			logger.Warn("Failed to invalidate statistics cache", gecho.Field("key", cacheKey))
			return true
		}
		statsKeys.Delete(key)
		return true
	})
}
