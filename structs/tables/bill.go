package tables

import (
	"time"
)

// CombinedBill merges the unpaid orders of two or more tables into one
// settlement unit. It is settled in full or through arbitrary splits and
// is terminal once paid or cancelled.
type CombinedBill struct {
	tableName  struct{} `bun:"table:combined_bills,alias:cb"`
	Id         int64    `bun:"id,pk" json:"id"`
	BillNumber string   `bun:"bill_number,notnull,unique" json:"bill_number" validate:"omitempty,min=4,max=50"`

	Status BillStatus `bun:"status,notnull,default:'pending'" json:"status" validate:"required,oneof=pending paid cancelled"`

	// Amounts: FinalAmount == Subtotal + ServiceCharge, all 2 dp.
	Subtotal      float64 `bun:"subtotal,notnull" json:"subtotal" validate:"gte=0"`
	ServiceCharge float64 `bun:"service_charge,notnull" json:"service_charge" validate:"gte=0"`
	FinalAmount   float64 `bun:"final_amount,notnull" json:"final_amount" validate:"gte=0"`

	PaymentMethod PaymentMethod `bun:"payment_method,notnull,default:'cash'" json:"payment_method" validate:"omitempty,oneof=cash card qr transfer"`
	CustomerName  string        `bun:"customer_name" json:"customer_name,omitempty" validate:"omitempty,max=100"`
	Note          string        `bun:"note" json:"note,omitempty" validate:"omitempty,max=1000"`

	CreatedAt time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
	SettledAt *time.Time `bun:"settled_at,nullzero" json:"settled_at,omitempty"`

	LineItems []*BillLineItem `bun:"rel:has-many,join:id=combined_bill_id" json:"line_items,omitempty"`
}

// BillLineItem is the per-table breakdown of a combined bill. OrderIds is
// the authoritative link to the constituent orders; settlement resolves the
// orders from this column, never from free-text metadata.
type BillLineItem struct {
	tableName      struct{} `bun:"table:bill_line_items,alias:bli"`
	Id             int64    `bun:"id,pk" json:"id"`
	CombinedBillId int64    `bun:"combined_bill_id,notnull" json:"combined_bill_id"`

	TableId     int64   `bun:"table_id,notnull" json:"table_id" validate:"required"`
	TableNumber int     `bun:"table_number,notnull" json:"table_number" validate:"required"`
	Subtotal    float64 `bun:"subtotal,notnull" json:"subtotal" validate:"gte=0"`
	OrderIds    []int64 `bun:"order_ids,array,notnull" json:"order_ids" validate:"required,min=1"`
}

type BillStatus string

const (
	BillStatusPending   BillStatus = "pending"
	BillStatusPaid      BillStatus = "paid"
	BillStatusCancelled BillStatus = "cancelled"
)
