package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateOldestFirstPartialPool(t *testing.T) {
	e1 := uuid.New()
	e2 := uuid.New()
	entries := []EntryDue{
		{EntryID: e1, Date: "2026-01-05", Total: 100},
		{EntryID: e2, Date: "2026-01-10", Total: 50},
	}

	allocations := AllocateOldestFirst(entries, 120)
	require.Len(t, allocations, 2)

	assert.Equal(t, e1, allocations[0].EntryID)
	assert.Equal(t, 100.0, allocations[0].AllocatedPaid)
	assert.Equal(t, 0.0, allocations[0].AllocatedRemaining)

	assert.Equal(t, e2, allocations[1].EntryID)
	assert.Equal(t, 20.0, allocations[1].AllocatedPaid)
	assert.Equal(t, 30.0, allocations[1].AllocatedRemaining)
}

func TestAllocateOldestFirstSortsByDate(t *testing.T) {
	older := uuid.New()
	newer := uuid.New()
	// Given newest first; the resolver must settle the older entry first.
	entries := []EntryDue{
		{EntryID: newer, Date: "2026-03-20", Total: 80},
		{EntryID: older, Date: "2026-03-01", Total: 80},
	}

	allocations := AllocateOldestFirst(entries, 80)
	require.Len(t, allocations, 2)
	assert.Equal(t, older, allocations[0].EntryID)
	assert.Equal(t, 80.0, allocations[0].AllocatedPaid)
	assert.Equal(t, newer, allocations[1].EntryID)
	assert.Equal(t, 0.0, allocations[1].AllocatedPaid)
	assert.Equal(t, 80.0, allocations[1].AllocatedRemaining)
}

func TestAllocateOldestFirstEqualDatesKeepOrder(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	entries := []EntryDue{
		{EntryID: first, Date: "2026-02-14", Total: 60},
		{EntryID: second, Date: "2026-02-14", Total: 60},
	}

	allocations := AllocateOldestFirst(entries, 60)
	require.Len(t, allocations, 2)
	assert.Equal(t, first, allocations[0].EntryID)
	assert.Equal(t, 60.0, allocations[0].AllocatedPaid)
	assert.Equal(t, second, allocations[1].EntryID)
	assert.Equal(t, 0.0, allocations[1].AllocatedPaid)
}

func TestAllocateOldestFirstOverpaidPool(t *testing.T) {
	entries := []EntryDue{
		{EntryID: uuid.New(), Date: "2026-01-01", Total: 100},
		{EntryID: uuid.New(), Date: "2026-01-02", Total: 50},
	}

	allocations := AllocateOldestFirst(entries, 500)
	require.Len(t, allocations, 2)
	for _, a := range allocations {
		assert.Equal(t, 0.0, a.AllocatedRemaining)
	}
	assert.Equal(t, 100.0, allocations[0].AllocatedPaid)
	assert.Equal(t, 50.0, allocations[1].AllocatedPaid)
}

func TestAllocateOldestFirstZeroPool(t *testing.T) {
	entries := []EntryDue{
		{EntryID: uuid.New(), Date: "2026-01-01", Total: 100},
		{EntryID: uuid.New(), Date: "2026-01-02", Total: 50},
	}

	allocations := AllocateOldestFirst(entries, 0)
	require.Len(t, allocations, 2)
	assert.Equal(t, 0.0, allocations[0].AllocatedPaid)
	assert.Equal(t, 100.0, allocations[0].AllocatedRemaining)
	assert.Equal(t, 0.0, allocations[1].AllocatedPaid)
	assert.Equal(t, 50.0, allocations[1].AllocatedRemaining)
}

func TestAllocateOldestFirstEmptyEntries(t *testing.T) {
	allocations := AllocateOldestFirst(nil, 250)
	assert.Empty(t, allocations)
}

func TestAllocateOldestFirstFractionalAmounts(t *testing.T) {
	e1 := uuid.New()
	e2 := uuid.New()
	entries := []EntryDue{
		{EntryID: e1, Date: "2026-01-01", Total: 33.33},
		{EntryID: e2, Date: "2026-01-02", Total: 66.67},
	}

	allocations := AllocateOldestFirst(entries, 50)
	require.Len(t, allocations, 2)
	assert.Equal(t, 33.33, allocations[0].AllocatedPaid)
	assert.Equal(t, 0.0, allocations[0].AllocatedRemaining)
	assert.Equal(t, 16.67, allocations[1].AllocatedPaid)
	assert.Equal(t, 50.0, allocations[1].AllocatedRemaining)
}
