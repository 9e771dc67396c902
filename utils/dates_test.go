package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2026-04-30"))
	assert.True(t, IsValidDate("2024-02-29")) // leap day

	assert.False(t, IsValidDate("2026-04-31"))
	assert.False(t, IsValidDate("2026-13-01"))
	assert.False(t, IsValidDate("2025-02-29"))
	assert.False(t, IsValidDate("30-04-2026"))
	assert.False(t, IsValidDate("2026-4-30"))
	assert.False(t, IsValidDate(""))
}

func TestIsValidMonth(t *testing.T) {
	assert.True(t, IsValidMonth("2026-01"))
	assert.True(t, IsValidMonth("2026-12"))

	assert.False(t, IsValidMonth("2026-13"))
	assert.False(t, IsValidMonth("2026-1"))
	assert.False(t, IsValidMonth("2026-04-01"))
	assert.False(t, IsValidMonth(""))
}

func TestDaysInMonth(t *testing.T) {
	cases := map[string]int{
		"2026-01": 31,
		"2026-02": 28,
		"2024-02": 29,
		"2026-04": 30,
		"2026-12": 31,
	}
	for month, want := range cases {
		got, err := DaysInMonth(month)
		require.NoError(t, err)
		assert.Equal(t, want, got, month)
	}

	_, err := DaysInMonth("not-a-month")
	assert.Error(t, err)
}

func TestMonthEnd(t *testing.T) {
	end, err := MonthEnd("2026-04")
	require.NoError(t, err)
	assert.Equal(t, "2026-04-30", end)

	end, err = MonthEnd("2024-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", end)

	_, err = MonthEnd("04-2026")
	assert.Error(t, err)
}

func TestMonthOf(t *testing.T) {
	assert.Equal(t, "2026-04", MonthOf("2026-04-17"))
	assert.Equal(t, "", MonthOf("short"))
}

func TestDateStringOrderingIsChronological(t *testing.T) {
	// The ledgers rely on this property for FIFO ordering.
	assert.True(t, "2026-01-31" < "2026-02-01")
	assert.True(t, "2025-12-31" < "2026-01-01")
	assert.True(t, "2026-04" < "2026-05")
}
