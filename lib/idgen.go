package lib

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// Transaction-reference prefixes. Statistics tell split settlements from
// full ones by the stored prefix, so these are part of the data contract.
const (
	FullSettlementRefPrefix  = "full"
	SplitSettlementRefPrefix = "split"
)

// IDGenerator hands out entity identifiers for bills, line items and
// payments. Snowflake IDs are monotonic per node, which keeps collisions
// structurally impossible instead of merely improbable.
type IDGenerator struct {
	node *snowflake.Node
}

func NewIDGenerator(nodeId int64) (*IDGenerator, error) {
	node, err := snowflake.NewNode(nodeId)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}
	return &IDGenerator{node: node}, nil
}

func (g *IDGenerator) NextID() int64 {
	return g.node.Generate().Int64()
}

// BillNumber derives the human-facing bill number from the entity ID.
func (g *IDGenerator) BillNumber(id int64) string {
	return fmt.Sprintf("CB-%d", id)
}

// FullSettlementRef returns the transaction reference tying the payment
// rows of one full-payment settlement to their bill.
func (g *IDGenerator) FullSettlementRef(billId int64) string {
	return fmt.Sprintf("%s:%d:%s", FullSettlementRefPrefix, billId, uuid.NewString())
}

// SplitSettlementRef returns the per-table transaction reference for one
// split entry of a split settlement.
func (g *IDGenerator) SplitSettlementRef(billId, tableId int64) string {
	return fmt.Sprintf("%s:%d:t%d:%s", SplitSettlementRefPrefix, billId, tableId, uuid.NewString())
}
