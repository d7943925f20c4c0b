package lib

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGeneratorUniqueness(t *testing.T) {
	gen, err := NewIDGenerator(1)
	require.NoError(t, err)

	seen := make(map[int64]struct{}, 1000)
	for range 1000 {
		id := gen.NextID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestBillNumber(t *testing.T) {
	gen, err := NewIDGenerator(1)
	require.NoError(t, err)
	assert.Equal(t, "CB-42", gen.BillNumber(42))
}

func TestSettlementRefs(t *testing.T) {
	gen, err := NewIDGenerator(1)
	require.NoError(t, err)

	full := gen.FullSettlementRef(42)
	assert.True(t, strings.HasPrefix(full, "full:42:"))

	split := gen.SplitSettlementRef(42, 7)
	assert.True(t, strings.HasPrefix(split, "split:42:t7:"))

	// Refs embed a fresh UUID, so repeated calls never collide.
	assert.NotEqual(t, full, gen.FullSettlementRef(42))
}

func TestInvalidSnowflakeNode(t *testing.T) {
	_, err := NewIDGenerator(-1)
	assert.Error(t, err)
}
