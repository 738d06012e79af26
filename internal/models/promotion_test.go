package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fptr(f float64) *float64 { return &f }

func TestPromotionApply(t *testing.T) {
	t.Run("percent", func(t *testing.T) {
		p := &Promotion{DiscountPercent: fptr(20)}
		require.InDelta(t, 4000, p.Apply(5000), 0.001)
	})

	t.Run("flat amount", func(t *testing.T) {
		p := &Promotion{DiscountAmount: fptr(150)}
		require.InDelta(t, 850, p.Apply(1000), 0.001)
	})

	t.Run("flat amount floors at zero", func(t *testing.T) {
		p := &Promotion{DiscountAmount: fptr(500)}
		require.Equal(t, 0.0, p.Apply(300))
	})

	t.Run("percent wins over amount", func(t *testing.T) {
		p := &Promotion{DiscountPercent: fptr(10), DiscountAmount: fptr(999)}
		require.InDelta(t, 900, p.Apply(1000), 0.001)
	})

	t.Run("no discount fields", func(t *testing.T) {
		p := &Promotion{}
		require.Equal(t, 1000.0, p.Apply(1000))
	})
}

func TestPromotionInWindow(t *testing.T) {
	today := mustDate(t, "2025-06-15")

	start := mustDate(t, "2025-06-01")
	end := mustDate(t, "2025-06-30")
	p := &Promotion{StartDate: &start, EndDate: end}
	require.True(t, p.InWindow(today))

	// Window boundaries are inclusive.
	require.True(t, p.InWindow(start))
	require.True(t, p.InWindow(end))

	require.False(t, p.InWindow(mustDate(t, "2025-05-31")))
	require.False(t, p.InWindow(mustDate(t, "2025-07-01")))

	// Nil start means already started.
	open := &Promotion{EndDate: end}
	require.True(t, open.InWindow(mustDate(t, "2020-01-01")))
	require.False(t, open.InWindow(mustDate(t, "2025-07-01")))
}
