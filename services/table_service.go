package services

import (
	"context"
	"fmt"
	"time"

	"seeu_cafe_server/store"
	"seeu_cafe_server/structs"

	"github.com/MonkyMars/gecho"
)

// TableService is the unpaid-order locator: it finds occupied tables whose
// orders are ready to be folded into a combined bill.
type TableService struct {
	logger *gecho.Logger
	store  store.Store
}

func NewTableService(logger *gecho.Logger, st store.Store) *TableService {
	return &TableService{
		logger: logger,
		store:  st,
	}
}

// ListUnpaidTables returns every occupied table holding at least one
// settleable order, with its orders and running session duration. Purely a
// read; staleness is accepted because previews are advisory anyway.
func (ts *TableService) ListUnpaidTables(ctx context.Context) ([]structs.TableWithUnpaidOrders, error) {
	occupied, err := ts.store.ListOccupiedTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list occupied tables: %w", err)
	}

	now := time.Now()
	result := make([]structs.TableWithUnpaidOrders, 0, len(occupied))

	for _, table := range occupied {
		orders, err := ts.store.SettleableOrdersByTable(ctx, table.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to load settleable orders for table %d: %w", table.Number, err)
		}
		if len(orders) == 0 {
			continue
		}

		entry := structs.TableWithUnpaidOrders{
			TableId:       table.Id,
			TableNumber:   table.Number,
			Capacity:      table.Capacity,
			OccupiedSince: table.OccupiedSince,
			Orders:        make([]structs.UnpaidOrderSummary, 0, len(orders)),
		}

		if table.OccupiedSince != nil {
			entry.SessionDuration = int(now.Sub(*table.OccupiedSince).Minutes())
		}

		for _, order := range orders {
			itemCount := 0
			for _, detail := range order.Details {
				itemCount += detail.Quantity
			}

			entry.Subtotal += order.TotalPrice
			entry.Orders = append(entry.Orders, structs.UnpaidOrderSummary{
				OrderId:      order.Id,
				OrderNumber:  order.OrderNumber,
				Status:       order.Status,
				TotalPrice:   order.TotalPrice,
				CustomerName: order.CustomerName,
				ItemCount:    itemCount,
				CreatedAt:    order.CreatedAt,
			})
		}

		result = append(result, entry)
	}

	ts.logger.Debug("Located tables with unpaid orders", gecho.Field("count", len(result)))

	return result, nil
}
