package structs

import (
	"time"

	"seeu_cafe_server/structs/tables"
)

// CombineTablesRequest is shared by bill preview and bill creation; both
// paths run the same validation against the live table set.
type CombineTablesRequest struct {
	TableIds      []int64              `json:"table_ids" validate:"required,min=2,dive,required"`
	PaymentMethod tables.PaymentMethod `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card qr transfer"`
	CustomerName  string               `json:"customer_name,omitempty" validate:"omitempty,max=100"`
	Notes         string               `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type PayBillRequest struct {
	PaymentMethod tables.PaymentMethod `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card qr transfer"`
	Notes         string               `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type SplitPayRequest struct {
	Splits []SplitEntry `json:"splits" validate:"required,min=1,dive"`
	Notes  string       `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// SplitEntry is an amount collected against one table. Amounts are free-form:
// validation only checks that the splits sum to the bill total, so one table
// may cover another's share.
type SplitEntry struct {
	TableId       int64                `json:"table_id" validate:"required"`
	Amount        float64              `json:"amount" validate:"required,gt=0"`
	PaymentMethod tables.PaymentMethod `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card qr transfer"`
}

type CancelBillRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// UnpaidOrderSummary is one settleable order as shown by the locator.
type UnpaidOrderSummary struct {
	OrderId      int64              `json:"order_id"`
	OrderNumber  string             `json:"order_number"`
	Status       tables.OrderStatus `json:"status"`
	TotalPrice   float64            `json:"total_price"`
	CustomerName string             `json:"customer_name,omitempty"`
	ItemCount    int                `json:"item_count"`
	CreatedAt    time.Time          `json:"created_at"`
}

type TableWithUnpaidOrders struct {
	TableId         int64                `json:"table_id"`
	TableNumber     int                  `json:"table_number"`
	Capacity        int                  `json:"capacity"`
	OccupiedSince   *time.Time           `json:"occupied_since,omitempty"`
	SessionDuration int                  `json:"session_duration_minutes"`
	Subtotal        float64              `json:"subtotal"`
	Orders          []UnpaidOrderSummary `json:"orders"`
}

// ItemBreakdown is one line item inside a previewed order.
type ItemBreakdown struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

type OrderBreakdown struct {
	OrderId     int64           `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalPrice  float64         `json:"total_price"`
	Items       []ItemBreakdown `json:"items"`
}

type TableBreakdown struct {
	TableId     int64            `json:"table_id"`
	TableNumber int              `json:"table_number"`
	Subtotal    float64          `json:"subtotal"`
	OrderCount  int              `json:"order_count"`
	ItemCount   int              `json:"item_count"`
	Orders      []OrderBreakdown `json:"orders"`
}

// BillPreview is the advisory, non-persisted composition of a combined
// bill. Creation recomputes everything inside its own transaction.
type BillPreview struct {
	TableCount           int              `json:"table_count"`
	Subtotal             float64          `json:"subtotal"`
	ServiceChargeRate    float64          `json:"service_charge_rate"`
	ServiceCharge        float64          `json:"service_charge"`
	FinalAmount          float64          `json:"final_amount"`
	SuggestedSplitAmount float64          `json:"suggested_split_amount"`
	TotalOrders          int              `json:"total_orders"`
	TotalItems           int              `json:"total_items"`
	AveragePerTable      float64          `json:"average_per_table"`
	Tables               []TableBreakdown `json:"tables"`
}

type SettlementReadiness struct {
	AmountDue       float64              `json:"amount_due"`
	SuggestedMethod tables.PaymentMethod `json:"suggested_method"`
	CanSplit        bool                 `json:"can_split"`
}

type CreatedBill struct {
	Bill      *tables.CombinedBill `json:"bill"`
	Readiness SettlementReadiness  `json:"settlement_readiness"`
}

type SettlementResult struct {
	Bill           *tables.CombinedBill `json:"bill"`
	Payments       []*tables.Payment    `json:"payments"`
	ReleasedTables []int                `json:"released_tables"`
}

type LineItemDetail struct {
	LineItem *tables.BillLineItem `json:"line_item"`
	Orders   []*tables.Order      `json:"orders"`
}

type CombinedBillDetail struct {
	Bill      *tables.CombinedBill `json:"bill"`
	LineItems []LineItemDetail     `json:"line_items"`
}

type CombinedBillSummary struct {
	Id          int64             `json:"id"`
	BillNumber  string            `json:"bill_number"`
	Status      tables.BillStatus `json:"status"`
	FinalAmount float64           `json:"final_amount"`
	TableCount  int               `json:"table_count"`
	CreatedAt   time.Time         `json:"created_at"`
	SettledAt   *time.Time        `json:"settled_at,omitempty"`
}

type BillStatistics struct {
	WindowDays           int            `json:"window_days"`
	TotalBills           int            `json:"total_bills"`
	CountsByStatus       map[string]int `json:"counts_by_status"`
	PaidRevenue          float64        `json:"paid_revenue"`
	AverageTablesPerBill float64        `json:"average_tables_per_bill"`
	FullSettlements      int            `json:"full_settlements"`
	SplitSettlements     int            `json:"split_settlements"`
	SplitRatio           float64        `json:"split_ratio"`
}
