package tables

import (
	"time"
)

type CafeTable struct {
	tableName struct{} `bun:"table:cafe_tables,alias:t"`
	Id        int64    `bun:"id,pk,autoincrement" json:"id"`
	Number    int      `bun:"number,notnull,unique" json:"number" validate:"required,min=1"`
	Capacity  int      `bun:"capacity,notnull" json:"capacity" validate:"required,min=1"`

	// Occupancy. A table is occupied if and only if OccupiedSince is set.
	Status        TableStatus `bun:"status,notnull,default:'available'" json:"status" validate:"required,oneof=available occupied maintenance"`
	OccupiedSince *time.Time  `bun:"occupied_since,nullzero" json:"occupied_since,omitempty"`
	ExpectedEnd   *time.Time  `bun:"expected_end,nullzero" json:"expected_end,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type TableStatus string

const (
	TableStatusAvailable   TableStatus = "available"
	TableStatusOccupied    TableStatus = "occupied"
	TableStatusMaintenance TableStatus = "maintenance"
)
