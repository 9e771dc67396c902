// services/contractor_ledger.go
//
// Contractor ledger: same oldest-debt-first settlement as the vendor
// ledger, but the allocation is persisted so "how much of this entry is
// paid" is a stable, queryable fact. The allocation table is never
// patched incrementally; every mutation deletes and rebuilds the
// contractor's rows from the persisted entries and payments inside the
// same transaction.
package services

import (
	"errors"
	"sort"

	"buildtrack-backend/models"
	"buildtrack-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BuildAllocations is the pure rebuild: given a contractor's entries and
// payments it produces the full allocation row set. Entry paid-at-entry
// amounts settle their own entry first (rows with a nil PaymentID); the
// standalone payments then walk the entries oldest first. Deterministic
// for a given input, so rebuilding twice yields identical rows.
func BuildAllocations(entries []models.ContractorEntry, payments []models.ContractorPayment) []models.ContractorAllocation {
	ordered := make([]models.ContractorEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Date != ordered[j].Date {
			return ordered[i].Date < ordered[j].Date
		}
		return ordered[i].CreatedAt < ordered[j].CreatedAt
	})

	orderedPayments := make([]models.ContractorPayment, len(payments))
	copy(orderedPayments, payments)
	sort.SliceStable(orderedPayments, func(i, j int) bool {
		if orderedPayments[i].Date != orderedPayments[j].Date {
			return orderedPayments[i].Date < orderedPayments[j].Date
		}
		return orderedPayments[i].CreatedAt < orderedPayments[j].CreatedAt
	})

	var rows []models.ContractorAllocation
	outstanding := make([]float64, len(ordered))
	for i, e := range ordered {
		outstanding[i] = e.Amount
		intrinsic := e.PaidAmount
		if intrinsic > e.Amount {
			intrinsic = e.Amount
		}
		intrinsic = utils.Round2(intrinsic)
		if intrinsic > 0 {
			rows = append(rows, models.ContractorAllocation{
				CompanyID:    e.CompanyID,
				ContractorID: e.ContractorID,
				EntryID:      e.ID,
				PaymentID:    nil,
				Amount:       intrinsic,
			})
			outstanding[i] = utils.SumRound(outstanding[i], -intrinsic)
		}
	}

	next := 0 // first entry with outstanding due
	for _, p := range orderedPayments {
		left := utils.Round2(p.Amount)
		for next < len(ordered) && left > 0 {
			if outstanding[next] <= 0 {
				next++
				continue
			}
			take := outstanding[next]
			if left < take {
				take = left
			}
			take = utils.Round2(take)
			if take <= 0 {
				// Sub-cent residue rounds to nothing; move on so the
				// walk always terminates.
				next++
				continue
			}
			paymentID := p.ID
			rows = append(rows, models.ContractorAllocation{
				CompanyID:    p.CompanyID,
				ContractorID: p.ContractorID,
				EntryID:      ordered[next].ID,
				PaymentID:    &paymentID,
				Amount:       take,
			})
			outstanding[next] = utils.SumRound(outstanding[next], -take)
			left = utils.SumRound(left, -take)
		}
	}
	return rows
}

// rebuildAllocations replaces the contractor's allocation rows with a
// fresh build from the rows visible inside tx.
func rebuildAllocations(tx *gorm.DB, contractorID uuid.UUID) error {
	if err := tx.Where("contractor_id = ?", contractorID).
		Delete(&models.ContractorAllocation{}).Error; err != nil {
		return err
	}

	entries, payments, err := loadContractorBooks(tx, contractorID)
	if err != nil {
		return err
	}

	rows := BuildAllocations(entries, payments)
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func loadContractorBooks(db *gorm.DB, contractorID uuid.UUID) ([]models.ContractorEntry, []models.ContractorPayment, error) {
	var entries []models.ContractorEntry
	if err := db.Where("contractor_id = ?", contractorID).
		Order("date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, nil, err
	}
	var payments []models.ContractorPayment
	if err := db.Where("contractor_id = ?", contractorID).
		Order("date ASC, created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, nil, err
	}
	return entries, payments, nil
}

func contractorTotals(entries []models.ContractorEntry, payments []models.ContractorPayment) (billed, paid float64) {
	for _, e := range entries {
		billed = utils.SumRound(billed, e.Amount)
		paid = utils.SumRound(paid, e.PaidAmount)
	}
	for _, p := range payments {
		paid = utils.SumRound(paid, p.Amount)
	}
	return billed, paid
}

// ContractorEntryInput carries caller-supplied fields for billed work.
type ContractorEntryInput struct {
	ContractorID uuid.UUID
	Description  string
	Amount       float64
	PaidAmount   float64
	Date         string
}

type ContractorEntryUpdate struct {
	Description *string
	Amount      *float64
	PaidAmount  *float64
	Date        *string
}

type ContractorPaymentInput struct {
	ContractorID uuid.UUID
	Amount       float64
	Date         string
	Method       string
	Notes        string
}

type ContractorPaymentUpdate struct {
	Amount *float64
	Date   *string
	Method *string
	Notes  *string
}

func validateContractorEntry(amount, paidAmount float64, date string) *Error {
	if amount <= 0 {
		return Validationf("amount must be positive")
	}
	if paidAmount < 0 {
		return Validationf("paid amount cannot be negative")
	}
	if paidAmount > amount {
		return Validationf("paid amount %.2f exceeds entry amount %.2f", paidAmount, amount)
	}
	if !utils.IsValidDate(date) {
		return Validationf("date must be YYYY-MM-DD")
	}
	return nil
}

func CreateContractorEntry(db *gorm.DB, actor Actor, in ContractorEntryInput) (*models.ContractorEntry, error) {
	if verr := validateContractorEntry(in.Amount, in.PaidAmount, in.Date); verr != nil {
		return nil, verr
	}

	var entry models.ContractorEntry
	err := db.Transaction(func(tx *gorm.DB) error {
		var contractor models.Contractor
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, in.ContractorID).
			First(&contractor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("contractor not found")
			}
			return err
		}

		entry = models.ContractorEntry{
			CompanyID:    actor.CompanyID,
			ContractorID: contractor.ID,
			Description:  in.Description,
			Amount:       utils.Round2(in.Amount),
			PaidAmount:   utils.Round2(in.PaidAmount),
			Date:         in.Date,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		if err := rebuildAllocations(tx, contractor.ID); err != nil {
			return err
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionCreate,
			Module:      "contractor",
			EntityID:    entry.ID,
			Description: "work entry for " + contractor.Name,
			NewValue:    entry,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateContractorEntry edits billed work. Shrinking the entry below what
// the contractor has already been paid overall is an overpay and is
// rejected before anything is written.
func UpdateContractorEntry(db *gorm.DB, actor Actor, id uuid.UUID, in ContractorEntryUpdate) (*models.ContractorEntry, error) {
	var entry models.ContractorEntry
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, id).
			First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("contractor entry not found")
			}
			return err
		}
		old := entry

		if in.Description != nil {
			entry.Description = *in.Description
		}
		if in.Amount != nil {
			entry.Amount = utils.Round2(*in.Amount)
		}
		if in.PaidAmount != nil {
			entry.PaidAmount = utils.Round2(*in.PaidAmount)
		}
		if in.Date != nil {
			entry.Date = *in.Date
		}
		if verr := validateContractorEntry(entry.Amount, entry.PaidAmount, entry.Date); verr != nil {
			return verr
		}

		entries, payments, err := loadContractorBooks(tx, entry.ContractorID)
		if err != nil {
			return err
		}
		billed, paid := contractorTotals(entries, payments)
		// Recompute totals as if the edit were applied.
		billed = utils.SumRound(billed, entry.Amount-old.Amount)
		paid = utils.SumRound(paid, entry.PaidAmount-old.PaidAmount)
		if paid > billed {
			return Invariantf("edit would leave payments of %.2f against billed work of %.2f", paid, billed)
		}

		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		if err := rebuildAllocations(tx, entry.ContractorID); err != nil {
			return err
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionUpdate,
			Module:      "contractor",
			EntityID:    entry.ID,
			Description: "work entry edited",
			OldValue:    old,
			NewValue:    entry,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// checkEntryRemoval rejects deleting billed work when the money already
// paid against the ledger would exceed what remains billed afterwards.
// The entry's own intrinsic paid disappears with it and is not counted.
func checkEntryRemoval(entry *models.ContractorEntry, entries []models.ContractorEntry, payments []models.ContractorPayment) *Error {
	billed, _ := contractorTotals(entries, payments)

	var allocatedPaid float64
	for _, row := range BuildAllocations(entries, payments) {
		allocatedPaid = utils.SumRound(allocatedPaid, row.Amount)
	}
	allocatedPaid = utils.SumRound(allocatedPaid, -entry.PaidAmount)
	remaining := utils.SumRound(billed, -entry.Amount)
	if allocatedPaid > remaining {
		return Invariantf("cannot delete entry: %.2f already paid against %.2f of remaining work", allocatedPaid, remaining)
	}
	return nil
}

// DeleteContractorEntry removes billed work unless doing so would leave
// recorded payments exceeding the remaining obligations.
func DeleteContractorEntry(db *gorm.DB, actor Actor, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var entry models.ContractorEntry
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, id).
			First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("contractor entry not found")
			}
			return err
		}

		entries, payments, err := loadContractorBooks(tx, entry.ContractorID)
		if err != nil {
			return err
		}
		if gerr := checkEntryRemoval(&entry, entries, payments); gerr != nil {
			return gerr
		}

		if err := tx.Delete(&entry).Error; err != nil {
			return err
		}
		if err := rebuildAllocations(tx, entry.ContractorID); err != nil {
			return err
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionDelete,
			Module:      "contractor",
			EntityID:    entry.ID,
			Description: "work entry removed",
			OldValue:    entry,
		})
		return nil
	})
}

func CreateContractorPayment(db *gorm.DB, actor Actor, in ContractorPaymentInput) (*models.ContractorPayment, error) {
	if in.Amount <= 0 {
		return nil, Validationf("amount must be positive")
	}
	if !utils.IsValidDate(in.Date) {
		return nil, Validationf("date must be YYYY-MM-DD")
	}

	var payment models.ContractorPayment
	err := db.Transaction(func(tx *gorm.DB) error {
		var contractor models.Contractor
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, in.ContractorID).
			First(&contractor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("contractor not found")
			}
			return err
		}

		entries, payments, err := loadContractorBooks(tx, contractor.ID)
		if err != nil {
			return err
		}
		billed, paid := contractorTotals(entries, payments)
		if utils.SumRound(paid, in.Amount) > billed {
			return Invariantf("payment of %.2f would overpay: %.2f billed, %.2f already paid",
				in.Amount, billed, paid)
		}

		payment = models.ContractorPayment{
			CompanyID:    actor.CompanyID,
			ContractorID: contractor.ID,
			Amount:       utils.Round2(in.Amount),
			Date:         in.Date,
			Method:       in.Method,
			Notes:        in.Notes,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if err := rebuildAllocations(tx, contractor.ID); err != nil {
			return err
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionCreate,
			Module:      "contractor",
			EntityID:    payment.ID,
			Description: "payment to " + contractor.Name,
			NewValue:    payment,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func UpdateContractorPayment(db *gorm.DB, actor Actor, id uuid.UUID, in ContractorPaymentUpdate) (*models.ContractorPayment, error) {
	var payment models.ContractorPayment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, id).
			First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("contractor payment not found")
			}
			return err
		}
		old := payment

		if in.Amount != nil {
			if *in.Amount <= 0 {
				return Validationf("amount must be positive")
			}
			payment.Amount = utils.Round2(*in.Amount)
		}
		if in.Date != nil {
			if !utils.IsValidDate(*in.Date) {
				return Validationf("date must be YYYY-MM-DD")
			}
			payment.Date = *in.Date
		}
		if in.Method != nil {
			payment.Method = *in.Method
		}
		if in.Notes != nil {
			payment.Notes = *in.Notes
		}

		entries, payments, err := loadContractorBooks(tx, payment.ContractorID)
		if err != nil {
			return err
		}
		billed, paid := contractorTotals(entries, payments)
		paid = utils.SumRound(paid, payment.Amount-old.Amount)
		if paid > billed {
			return Invariantf("edit would leave payments of %.2f against billed work of %.2f", paid, billed)
		}

		if err := tx.Save(&payment).Error; err != nil {
			return err
		}
		if err := rebuildAllocations(tx, payment.ContractorID); err != nil {
			return err
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionUpdate,
			Module:      "contractor",
			EntityID:    payment.ID,
			Description: "contractor payment edited",
			OldValue:    old,
			NewValue:    payment,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// DeleteContractorPayment is always permitted: removing a payment can
// only increase what is still due.
func DeleteContractorPayment(db *gorm.DB, actor Actor, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var payment models.ContractorPayment
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, id).
			First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("contractor payment not found")
			}
			return err
		}

		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}
		if err := rebuildAllocations(tx, payment.ContractorID); err != nil {
			return err
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionDelete,
			Module:      "contractor",
			EntityID:    payment.ID,
			Description: "contractor payment removed",
			OldValue:    payment,
		})
		return nil
	})
}

// ContractorLedgerLine is one entry with its settled amount from the
// persisted allocation rows.
type ContractorLedgerLine struct {
	models.ContractorEntry
	AllocatedPaid      float64 `json:"allocatedPaid"`
	AllocatedRemaining float64 `json:"allocatedRemaining"`
}

type ContractorLedgerView struct {
	Contractor     models.Contractor          `json:"contractor"`
	Entries        []ContractorLedgerLine     `json:"entries"`
	Payments       []models.ContractorPayment `json:"payments"`
	TotalBilled    float64                    `json:"totalBilled"`
	TotalPaid      float64                    `json:"totalPaid"`
	TotalRemaining float64                    `json:"totalRemaining"`
}

func ContractorLedger(db *gorm.DB, actor Actor, contractorID uuid.UUID) (*ContractorLedgerView, error) {
	var contractor models.Contractor
	if err := db.Where("company_id = ? AND id = ?", actor.CompanyID, contractorID).
		First(&contractor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("contractor not found")
		}
		return nil, err
	}

	entries, payments, err := loadContractorBooks(db, contractorID)
	if err != nil {
		return nil, err
	}

	var allocations []models.ContractorAllocation
	if err := db.Where("contractor_id = ?", contractorID).
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	paidByEntry := make(map[uuid.UUID]float64, len(entries))
	for _, a := range allocations {
		paidByEntry[a.EntryID] = utils.SumRound(paidByEntry[a.EntryID], a.Amount)
	}

	billed, paid := contractorTotals(entries, payments)
	view := ContractorLedgerView{
		Contractor:     contractor,
		Entries:        make([]ContractorLedgerLine, 0, len(entries)),
		Payments:       payments,
		TotalBilled:    billed,
		TotalPaid:      paid,
		TotalRemaining: utils.SumRound(billed, -paid),
	}
	for _, e := range entries {
		settled := paidByEntry[e.ID]
		view.Entries = append(view.Entries, ContractorLedgerLine{
			ContractorEntry:    e,
			AllocatedPaid:      settled,
			AllocatedRemaining: utils.SumRound(e.Amount, -settled),
		})
	}
	return &view, nil
}
