package tables

import (
	"time"
)

type Payment struct {
	tableName struct{} `bun:"table:payments,alias:p"`
	Id        int64    `bun:"id,pk" json:"id"`

	// A payment settles either one order or one combined bill.
	OrderId        *int64 `bun:"order_id,nullzero" json:"order_id,omitempty"`
	CombinedBillId *int64 `bun:"combined_bill_id,nullzero" json:"combined_bill_id,omitempty"`

	Amount float64       `bun:"amount,notnull" json:"amount" validate:"gte=0"`
	Method PaymentMethod `bun:"method,notnull,default:'cash'" json:"method" validate:"required,oneof=cash card qr transfer"`
	Status PaymentStatus `bun:"status,notnull,default:'pending'" json:"status" validate:"required,oneof=pending completed failed refunded cancelled"`

	// TransactionRef groups the payment rows created by one settlement
	// action for audit queries.
	TransactionRef string `bun:"transaction_ref" json:"transaction_ref,omitempty" validate:"omitempty,max=100"`
	Note           string `bun:"note" json:"note,omitempty" validate:"omitempty,max=500"`

	PaidAt    *time.Time `bun:"paid_at,nullzero" json:"paid_at,omitempty"`
	CreatedAt time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// PaymentMethod is a label for reporting only; no processor is called.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodQR       PaymentMethod = "qr"
	PaymentMethodTransfer PaymentMethod = "transfer"
)
