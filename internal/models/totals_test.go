package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackTotals(t *testing.T) {
	amount1, less1 := 500.0, 50.0
	amount2 := 300.0
	explicit := 200.0

	reviews := []Review{
		{AmountRupees: &amount1, LessRupees: &less1},
		{AmountRupees: &amount2, RefundAmountRupees: &explicit},
		{},
	}

	totals := FallbackTotals(reviews)
	assert.Equal(t, int64(3), totals.Count)
	assert.Equal(t, 800.0, totals.TotalAmount)
	assert.Equal(t, 650.0, totals.TotalRefund)
}

func TestFallbackTotalsEmpty(t *testing.T) {
	totals := FallbackTotals(nil)
	assert.Equal(t, int64(0), totals.Count)
	assert.Equal(t, 0.0, totals.TotalAmount)
	assert.Equal(t, 0.0, totals.TotalRefund)
}
