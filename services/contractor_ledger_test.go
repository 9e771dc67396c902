package services

import (
	"testing"

	"buildtrack-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractorEntry(contractorID uuid.UUID, date string, amount, paid float64, seq int64) models.ContractorEntry {
	return models.ContractorEntry{
		ID:           uuid.New(),
		ContractorID: contractorID,
		Amount:       amount,
		PaidAmount:   paid,
		Date:         date,
		CreatedAt:    seq,
	}
}

func contractorPayment(contractorID uuid.UUID, date string, amount float64, seq int64) models.ContractorPayment {
	return models.ContractorPayment{
		ID:           uuid.New(),
		ContractorID: contractorID,
		Amount:       amount,
		Date:         date,
		CreatedAt:    seq,
	}
}

func TestBuildAllocationsIntrinsicPaidRows(t *testing.T) {
	cid := uuid.New()
	e1 := contractorEntry(cid, "2026-05-01", 1000, 400, 1)

	rows := BuildAllocations([]models.ContractorEntry{e1}, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, e1.ID, rows[0].EntryID)
	assert.Nil(t, rows[0].PaymentID)
	assert.Equal(t, 400.0, rows[0].Amount)
}

func TestBuildAllocationsPaymentsSettleOldestFirst(t *testing.T) {
	cid := uuid.New()
	e1 := contractorEntry(cid, "2026-05-01", 1000, 0, 1)
	e2 := contractorEntry(cid, "2026-05-10", 500, 0, 2)
	p1 := contractorPayment(cid, "2026-05-15", 1200, 1)

	rows := BuildAllocations([]models.ContractorEntry{e2, e1}, []models.ContractorPayment{p1})
	require.Len(t, rows, 2)

	assert.Equal(t, e1.ID, rows[0].EntryID)
	require.NotNil(t, rows[0].PaymentID)
	assert.Equal(t, p1.ID, *rows[0].PaymentID)
	assert.Equal(t, 1000.0, rows[0].Amount)

	assert.Equal(t, e2.ID, rows[1].EntryID)
	require.NotNil(t, rows[1].PaymentID)
	assert.Equal(t, p1.ID, *rows[1].PaymentID)
	assert.Equal(t, 200.0, rows[1].Amount)
}

func TestBuildAllocationsIntrinsicBeforePayments(t *testing.T) {
	cid := uuid.New()
	// The entry's own paid amount settles it first; the payment only
	// covers what is left.
	e1 := contractorEntry(cid, "2026-05-01", 1000, 700, 1)
	p1 := contractorPayment(cid, "2026-05-05", 300, 1)

	rows := BuildAllocations([]models.ContractorEntry{e1}, []models.ContractorPayment{p1})
	require.Len(t, rows, 2)

	assert.Nil(t, rows[0].PaymentID)
	assert.Equal(t, 700.0, rows[0].Amount)

	require.NotNil(t, rows[1].PaymentID)
	assert.Equal(t, 300.0, rows[1].Amount)
}

func TestBuildAllocationsPaymentSpansEntries(t *testing.T) {
	cid := uuid.New()
	e1 := contractorEntry(cid, "2026-06-01", 100, 0, 1)
	e2 := contractorEntry(cid, "2026-06-02", 100, 0, 2)
	e3 := contractorEntry(cid, "2026-06-03", 100, 0, 3)
	p1 := contractorPayment(cid, "2026-06-04", 50, 1)
	p2 := contractorPayment(cid, "2026-06-05", 175, 2)

	rows := BuildAllocations(
		[]models.ContractorEntry{e1, e2, e3},
		[]models.ContractorPayment{p1, p2},
	)
	require.Len(t, rows, 4)

	// p1 partially settles e1; p2 finishes e1, covers e2, starts e3.
	assert.Equal(t, e1.ID, rows[0].EntryID)
	assert.Equal(t, 50.0, rows[0].Amount)
	assert.Equal(t, p1.ID, *rows[0].PaymentID)

	assert.Equal(t, e1.ID, rows[1].EntryID)
	assert.Equal(t, 50.0, rows[1].Amount)
	assert.Equal(t, p2.ID, *rows[1].PaymentID)

	assert.Equal(t, e2.ID, rows[2].EntryID)
	assert.Equal(t, 100.0, rows[2].Amount)
	assert.Equal(t, p2.ID, *rows[2].PaymentID)

	assert.Equal(t, e3.ID, rows[3].EntryID)
	assert.Equal(t, 25.0, rows[3].Amount)
	assert.Equal(t, p2.ID, *rows[3].PaymentID)
}

func TestBuildAllocationsEqualDatesUseCreationOrder(t *testing.T) {
	cid := uuid.New()
	first := contractorEntry(cid, "2026-07-01", 100, 0, 10)
	second := contractorEntry(cid, "2026-07-01", 100, 0, 20)
	p := contractorPayment(cid, "2026-07-02", 100, 1)

	rows := BuildAllocations([]models.ContractorEntry{second, first}, []models.ContractorPayment{p})
	require.Len(t, rows, 1)
	assert.Equal(t, first.ID, rows[0].EntryID)
	assert.Equal(t, 100.0, rows[0].Amount)
}

func TestBuildAllocationsDeterministic(t *testing.T) {
	cid := uuid.New()
	entries := []models.ContractorEntry{
		contractorEntry(cid, "2026-05-03", 450, 100, 3),
		contractorEntry(cid, "2026-05-01", 1000, 0, 1),
		contractorEntry(cid, "2026-05-02", 250.75, 50, 2),
	}
	payments := []models.ContractorPayment{
		contractorPayment(cid, "2026-05-10", 600, 1),
		contractorPayment(cid, "2026-05-12", 333.33, 2),
	}

	first := BuildAllocations(entries, payments)
	second := BuildAllocations(entries, payments)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].EntryID, second[i].EntryID)
		assert.Equal(t, first[i].PaymentID, second[i].PaymentID)
		assert.Equal(t, first[i].Amount, second[i].Amount)
	}
}

func TestBuildAllocationsTotalNeverExceedsBilled(t *testing.T) {
	cid := uuid.New()
	entries := []models.ContractorEntry{
		contractorEntry(cid, "2026-05-01", 300, 0, 1),
	}
	// More money than billed: the surplus stays unallocated.
	payments := []models.ContractorPayment{
		contractorPayment(cid, "2026-05-02", 500, 1),
	}

	rows := BuildAllocations(entries, payments)
	require.Len(t, rows, 1)
	assert.Equal(t, 300.0, rows[0].Amount)
}

func TestBuildAllocationsEmptyInputs(t *testing.T) {
	assert.Empty(t, BuildAllocations(nil, nil))

	cid := uuid.New()
	p := contractorPayment(cid, "2026-05-01", 100, 1)
	assert.Empty(t, BuildAllocations(nil, []models.ContractorPayment{p}))
}

func TestBuildAllocationsSubCentResidueTerminates(t *testing.T) {
	cid := uuid.New()
	// An entry amount below half a cent rounds to a zero allocation; the
	// walk must skip it rather than loop on it.
	dust := contractorEntry(cid, "2026-05-01", 0.004, 0, 1)
	e2 := contractorEntry(cid, "2026-05-02", 100, 0, 2)
	p := contractorPayment(cid, "2026-05-03", 50, 1)

	rows := BuildAllocations([]models.ContractorEntry{dust, e2}, []models.ContractorPayment{p})
	require.Len(t, rows, 1)
	assert.Equal(t, e2.ID, rows[0].EntryID)
	assert.Equal(t, 50.0, rows[0].Amount)
}

func TestCheckEntryRemovalGuard(t *testing.T) {
	cid := uuid.New()
	e1 := contractorEntry(cid, "2026-05-01", 1000, 0, 1)
	e2 := contractorEntry(cid, "2026-05-10", 500, 0, 2)
	entries := []models.ContractorEntry{e1, e2}
	payments := []models.ContractorPayment{
		contractorPayment(cid, "2026-05-15", 800, 1),
	}

	// Removing e2 leaves 800 paid against 1000 still billed.
	assert.Nil(t, checkEntryRemoval(&e2, entries, payments))

	// Removing e1 would leave 800 paid against only 500 billed.
	err := checkEntryRemoval(&e1, entries, payments)
	require.NotNil(t, err)
	assert.Equal(t, KindInvariant, err.Kind)
}

func TestCheckEntryRemovalIgnoresOwnIntrinsicPaid(t *testing.T) {
	cid := uuid.New()
	// The entry's paid-at-entry money vanishes with the entry, so a fully
	// self-settled entry can always go.
	e1 := contractorEntry(cid, "2026-05-01", 1000, 1000, 1)
	assert.Nil(t, checkEntryRemoval(&e1, []models.ContractorEntry{e1}, nil))
}

func TestCheckEntryRemovalBlocksStrandedPayment(t *testing.T) {
	cid := uuid.New()
	e1 := contractorEntry(cid, "2026-05-01", 100, 100, 1)
	e2 := contractorEntry(cid, "2026-05-02", 100, 0, 2)
	entries := []models.ContractorEntry{e1, e2}
	// The payment settled e2; e1 is covered by its own intrinsic paid.
	payments := []models.ContractorPayment{
		contractorPayment(cid, "2026-05-03", 50, 1),
	}

	// Dropping e2 strands the 50 against e1, which is already settled.
	err := checkEntryRemoval(&e2, entries, payments)
	require.NotNil(t, err)
	assert.Equal(t, KindInvariant, err.Kind)

	// Dropping e1 is fine: 50 paid against 100 of remaining work.
	assert.Nil(t, checkEntryRemoval(&e1, entries, payments))
}
