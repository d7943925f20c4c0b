package tables

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	// Table name and identifiers
	tableName   struct{} `bun:"table:orders,alias:o"`
	Id          int64    `bun:"id,pk" json:"id"`
	OrderNumber string   `bun:"order_number,notnull,unique" json:"order_number" validate:"omitempty,min=4,max=50"`

	// Customer data
	CustomerName string     `bun:"customer_name" json:"customer_name,omitempty" validate:"omitempty,max=100"`
	UserId       *uuid.UUID `bun:"user_id,nullzero,type:uuid" json:"user_id,omitempty"`
	Note         string     `bun:"note" json:"note,omitempty" validate:"omitempty,max=500"`

	// Dine-in orders carry the table they were placed at until settled.
	TableId *int64 `bun:"table_id,nullzero" json:"table_id,omitempty"`

	// Order data
	TotalPrice float64     `bun:"total_price,notnull" json:"total_price" validate:"gte=0"`
	Status     OrderStatus `bun:"status,notnull,default:'pending'" json:"status" validate:"required,oneof=pending confirmed preparing ready served completed cancelled"`
	CreatedAt  time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time   `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Details []*OrderDetail `bun:"rel:has-many,join:id=order_id" json:"details,omitempty"`
}

type OrderDetail struct {
	tableName struct{} `bun:"table:order_details,alias:od"`
	Id        int64    `bun:"id,pk" json:"id"`
	OrderId   int64    `bun:"order_id,notnull" json:"order_id" validate:"required"`

	// Exactly one of FoodId / BeverageId is set.
	FoodId     *int64 `bun:"food_id,nullzero" json:"food_id,omitempty"`
	BeverageId *int64 `bun:"beverage_id,nullzero" json:"beverage_id,omitempty"`

	// Snapshot of the menu item at order time so settled bills stay
	// correct when the catalog changes later.
	ItemName  string  `bun:"item_name,notnull" json:"item_name" validate:"required,min=1,max=200"`
	Quantity  int     `bun:"quantity,notnull" json:"quantity" validate:"required,min=1"`
	UnitPrice float64 `bun:"unit_price,notnull" json:"unit_price" validate:"gte=0"`
	Note      string  `bun:"note" json:"note,omitempty" validate:"omitempty,max=500"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// SettleableOrderStatuses are the order states a combined bill may collect
// payment for: the kitchen is done with them but no completed payment exists.
var SettleableOrderStatuses = []OrderStatus{
	OrderStatusCompleted,
	OrderStatusReady,
	OrderStatusServed,
}
