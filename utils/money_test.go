package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.555))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, -10.56, Round2(-10.555))
	assert.Equal(t, 100.0, Round2(100))
	// Classic float repr case: 0.1+0.2 style drift gets normalized.
	assert.Equal(t, 0.3, Round2(0.1+0.2))
}

func TestRoundWhole(t *testing.T) {
	assert.Equal(t, 3000.0, RoundWhole(30000.0/30*3))
	assert.Equal(t, 323.0, RoundWhole(10000.0/31))
	assert.Equal(t, 2.0, RoundWhole(1.5))
	assert.Equal(t, -2.0, RoundWhole(-1.5))
	assert.Equal(t, 1.0, RoundWhole(1.4999))
}

func TestMulRound(t *testing.T) {
	assert.Equal(t, 437.5, MulRound(17.5, 25))
	assert.Equal(t, 33.33, MulRound(3.333, 10))
}

func TestSumRound(t *testing.T) {
	assert.Equal(t, 0.3, SumRound(0.1, 0.2))
	assert.Equal(t, 50.0, SumRound(120, -100, 30))
	assert.Equal(t, 0.0, SumRound())
	// Running balances stay exact over many small movements.
	total := 0.0
	for i := 0; i < 100; i++ {
		total = SumRound(total, 0.01)
	}
	assert.Equal(t, 1.0, total)
}
