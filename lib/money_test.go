package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 85.00, Round2(850*0.10))
	assert.Equal(t, 467.50, Round2(935.0/2))
	assert.Equal(t, 0.30, Round2(0.1+0.2))
	assert.Equal(t, 10.56, Round2(10.556))
	assert.Equal(t, 10.55, Round2(10.554))
}

func TestAmountsMatch(t *testing.T) {
	assert.True(t, AmountsMatch(935.00, 935.00))
	assert.True(t, AmountsMatch(935.01, 935.00))
	assert.True(t, AmountsMatch(934.99, 935.00))
	assert.False(t, AmountsMatch(934.98, 935.00))
	assert.False(t, AmountsMatch(900.00, 935.00))

	// Accumulated float error inside the tolerance still matches.
	sum := 311.67 + 311.67 + 311.66
	assert.True(t, AmountsMatch(sum, 935.00))
}
