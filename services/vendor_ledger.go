// services/vendor_ledger.go
//
// Vendor ledger: purchase entries carry their own paid-at-entry amount,
// standalone payments are not linked to entries. The ledger view
// reconciles the two by pooling everything paid and settling entries
// oldest first. The allocation is recomputed on every read and never
// persisted; the entry's stored PaidAmount stays the system of record
// for billing totals.
package services

import (
	"errors"
	"sort"

	"buildtrack-backend/models"
	"buildtrack-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryDue is the resolver's input: one entry's billed total in date order.
type EntryDue struct {
	EntryID uuid.UUID
	Date    string // YYYY-MM-DD
	Total   float64
}

// EntryAllocation is the FIFO-reconciled view of one entry.
type EntryAllocation struct {
	EntryID            uuid.UUID `json:"entryId"`
	AllocatedPaid      float64   `json:"allocatedPaid"`
	AllocatedRemaining float64   `json:"allocatedRemaining"`
}

// AllocateOldestFirst distributes a payment pool across entries, oldest
// debt first. Entries with equal dates keep their given relative order.
// A pool larger than total billed leaves every entry fully settled; a
// zero pool leaves every entry fully outstanding.
func AllocateOldestFirst(entries []EntryDue, pool float64) []EntryAllocation {
	ordered := make([]EntryDue, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})

	pool = utils.Round2(pool)
	allocations := make([]EntryAllocation, 0, len(ordered))
	for _, e := range ordered {
		paid := e.Total
		if pool < paid {
			paid = pool
		}
		paid = utils.Round2(paid)
		pool = utils.SumRound(pool, -paid)
		allocations = append(allocations, EntryAllocation{
			EntryID:            e.EntryID,
			AllocatedPaid:      paid,
			AllocatedRemaining: utils.SumRound(e.Total, -paid),
		})
	}
	return allocations
}

// PurchaseEntryInput carries caller-supplied fields for a purchase entry.
type PurchaseEntryInput struct {
	VendorID    uuid.UUID
	StockItemID uuid.UUID
	Quantity    float64
	UnitPrice   float64
	PaidAmount  float64
	Date        string
	Notes       string
}

type PurchaseEntryUpdate struct {
	Quantity   *float64
	UnitPrice  *float64
	PaidAmount *float64
	Date       *string
	Notes      *string
}

// PurchaseEntryView is a mutation result plus the FIFO-reconciled figures
// and denormalized names.
type PurchaseEntryView struct {
	models.PurchaseEntry
	VendorName         string  `json:"vendorName"`
	StockItemName      string  `json:"stockItemName"`
	AllocatedPaid      float64 `json:"allocatedPaid"`
	AllocatedRemaining float64 `json:"allocatedRemaining"`
}

// VendorLedgerLine is one row of the reconciled ledger view.
type VendorLedgerLine struct {
	models.PurchaseEntry
	StockItemName      string  `json:"stockItemName"`
	AllocatedPaid      float64 `json:"allocatedPaid"`
	AllocatedRemaining float64 `json:"allocatedRemaining"`
}

// VendorLedgerView is the point-in-time reconciled ledger for one vendor.
type VendorLedgerView struct {
	Vendor         models.Vendor          `json:"vendor"`
	Entries        []VendorLedgerLine     `json:"entries"`
	Payments       []models.VendorPayment `json:"payments"`
	TotalBilled    float64                `json:"totalBilled"`
	TotalPaid      float64                `json:"totalPaid"`
	TotalRemaining float64                `json:"totalRemaining"`
}

func validatePurchaseEntryInput(quantity, unitPrice, paidAmount float64, date string) *Error {
	if quantity <= 0 {
		return Validationf("quantity must be positive")
	}
	if unitPrice <= 0 {
		return Validationf("unit price must be positive")
	}
	if paidAmount < 0 {
		return Validationf("paid amount cannot be negative")
	}
	total := utils.MulRound(quantity, unitPrice)
	if paidAmount > total {
		return Validationf("paid amount %.2f exceeds total price %.2f", paidAmount, total)
	}
	if !utils.IsValidDate(date) {
		return Validationf("date must be YYYY-MM-DD")
	}
	return nil
}

// CreatePurchaseEntry records a purchase, increments the stock item's
// quantity and returns the entry with its allocation-consistent figures.
func CreatePurchaseEntry(db *gorm.DB, actor Actor, in PurchaseEntryInput) (*PurchaseEntryView, error) {
	if verr := validatePurchaseEntryInput(in.Quantity, in.UnitPrice, in.PaidAmount, in.Date); verr != nil {
		return nil, verr
	}

	var view PurchaseEntryView
	err := db.Transaction(func(tx *gorm.DB) error {
		var vendor models.Vendor
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, in.VendorID).
			First(&vendor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("vendor not found")
			}
			return err
		}
		var item models.StockItem
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, in.StockItemID).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("stock item not found")
			}
			return err
		}

		total := utils.MulRound(in.Quantity, in.UnitPrice)
		entry := models.PurchaseEntry{
			CompanyID:   actor.CompanyID,
			VendorID:    vendor.ID,
			StockItemID: item.ID,
			Quantity:    in.Quantity,
			UnitPrice:   utils.Round2(in.UnitPrice),
			TotalPrice:  total,
			PaidAmount:  utils.Round2(in.PaidAmount),
			Remaining:   utils.SumRound(total, -in.PaidAmount),
			Date:        in.Date,
			Notes:       in.Notes,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		item.Quantity = utils.SumRound(item.Quantity, in.Quantity)
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		alloc, err := allocationFor(tx, vendor.ID, entry.ID)
		if err != nil {
			return err
		}
		view = PurchaseEntryView{
			PurchaseEntry:      entry,
			VendorName:         vendor.Name,
			StockItemName:      item.Name,
			AllocatedPaid:      alloc.AllocatedPaid,
			AllocatedRemaining: alloc.AllocatedRemaining,
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionCreate,
			Module:      "vendor",
			EntityID:    entry.ID,
			Description: "purchase entry for " + vendor.Name,
			NewValue:    entry,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// UpdatePurchaseEntry edits an entry, keeping the stock quantity in step
// with the quantity delta. Shrinking the quantity below what stock still
// holds is blocked.
func UpdatePurchaseEntry(db *gorm.DB, actor Actor, id uuid.UUID, in PurchaseEntryUpdate) (*PurchaseEntryView, error) {
	var view PurchaseEntryView
	err := db.Transaction(func(tx *gorm.DB) error {
		var entry models.PurchaseEntry
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, id).
			First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("purchase entry not found")
			}
			return err
		}
		old := entry

		if in.Quantity != nil {
			entry.Quantity = *in.Quantity
		}
		if in.UnitPrice != nil {
			entry.UnitPrice = utils.Round2(*in.UnitPrice)
		}
		if in.PaidAmount != nil {
			entry.PaidAmount = utils.Round2(*in.PaidAmount)
		}
		if in.Date != nil {
			entry.Date = *in.Date
		}
		if in.Notes != nil {
			entry.Notes = *in.Notes
		}
		if verr := validatePurchaseEntryInput(entry.Quantity, entry.UnitPrice, entry.PaidAmount, entry.Date); verr != nil {
			return verr
		}
		entry.TotalPrice = utils.MulRound(entry.Quantity, entry.UnitPrice)
		entry.Remaining = utils.SumRound(entry.TotalPrice, -entry.PaidAmount)

		var item models.StockItem
		if err := tx.First(&item, "id = ?", entry.StockItemID).Error; err != nil {
			return err
		}
		delta := utils.SumRound(entry.Quantity, -old.Quantity)
		if item.Quantity+delta < 0 {
			return Invariantf("stock %s would go negative: have %.3f, change %.3f",
				item.Name, item.Quantity, delta)
		}
		if delta != 0 {
			item.Quantity = utils.SumRound(item.Quantity, delta)
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		if err := tx.Save(&entry).Error; err != nil {
			return err
		}

		var vendor models.Vendor
		if err := tx.First(&vendor, "id = ?", entry.VendorID).Error; err != nil {
			return err
		}

		alloc, err := allocationFor(tx, entry.VendorID, entry.ID)
		if err != nil {
			return err
		}
		view = PurchaseEntryView{
			PurchaseEntry:      entry,
			VendorName:         vendor.Name,
			StockItemName:      item.Name,
			AllocatedPaid:      alloc.AllocatedPaid,
			AllocatedRemaining: alloc.AllocatedRemaining,
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionUpdate,
			Module:      "vendor",
			EntityID:    entry.ID,
			Description: "purchase entry edited",
			OldValue:    old,
			NewValue:    entry,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// DeletePurchaseEntry removes an entry if the stock item can absorb the
// quantity decrease. Vendor-side allocation state never blocks deletion;
// the guard is stock non-negativity.
func DeletePurchaseEntry(db *gorm.DB, actor Actor, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var entry models.PurchaseEntry
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, id).
			First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("purchase entry not found")
			}
			return err
		}

		var item models.StockItem
		if err := tx.First(&item, "id = ?", entry.StockItemID).Error; err != nil {
			return err
		}
		if item.Quantity < entry.Quantity {
			return Invariantf("cannot delete entry: stock %s holds %.3f, entry supplied %.3f already consumed",
				item.Name, item.Quantity, entry.Quantity)
		}

		item.Quantity = utils.SumRound(item.Quantity, -entry.Quantity)
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entry).Error; err != nil {
			return err
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionDelete,
			Module:      "vendor",
			EntityID:    entry.ID,
			Description: "purchase entry removed",
			OldValue:    entry,
		})
		return nil
	})
}

// VendorPaymentInput carries caller-supplied fields for a standalone
// vendor payment. Overpaying a vendor is allowed; the resolver simply
// shows every entry settled.
type VendorPaymentInput struct {
	VendorID uuid.UUID
	Amount   float64
	Date     string
	Method   string
	Notes    string
}

func CreateVendorPayment(db *gorm.DB, actor Actor, in VendorPaymentInput) (*models.VendorPayment, error) {
	if in.Amount <= 0 {
		return nil, Validationf("amount must be positive")
	}
	if !utils.IsValidDate(in.Date) {
		return nil, Validationf("date must be YYYY-MM-DD")
	}

	var payment models.VendorPayment
	err := db.Transaction(func(tx *gorm.DB) error {
		var vendor models.Vendor
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, in.VendorID).
			First(&vendor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("vendor not found")
			}
			return err
		}

		payment = models.VendorPayment{
			CompanyID: actor.CompanyID,
			VendorID:  vendor.ID,
			Amount:    utils.Round2(in.Amount),
			Date:      in.Date,
			Method:    in.Method,
			Notes:     in.Notes,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionCreate,
			Module:      "vendor",
			EntityID:    payment.ID,
			Description: "payment to " + vendor.Name,
			NewValue:    payment,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func DeleteVendorPayment(db *gorm.DB, actor Actor, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var payment models.VendorPayment
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, id).
			First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("vendor payment not found")
			}
			return err
		}
		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionDelete,
			Module:      "vendor",
			EntityID:    payment.ID,
			Description: "vendor payment removed",
			OldValue:    payment,
		})
		return nil
	})
}

// VendorLedger materializes the reconciled point-in-time view for one
// vendor without mutating anything.
func VendorLedger(db *gorm.DB, actor Actor, vendorID uuid.UUID) (*VendorLedgerView, error) {
	var vendor models.Vendor
	if err := db.Where("company_id = ? AND id = ?", actor.CompanyID, vendorID).
		First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("vendor not found")
		}
		return nil, err
	}

	entries, payments, err := loadVendorBooks(db, vendorID)
	if err != nil {
		return nil, err
	}

	dues := make([]EntryDue, 0, len(entries))
	pool := 0.0
	billed := 0.0
	for _, e := range entries {
		dues = append(dues, EntryDue{EntryID: e.ID, Date: e.Date, Total: e.TotalPrice})
		pool = utils.SumRound(pool, e.PaidAmount)
		billed = utils.SumRound(billed, e.TotalPrice)
	}
	for _, p := range payments {
		pool = utils.SumRound(pool, p.Amount)
	}

	byEntry := make(map[uuid.UUID]EntryAllocation, len(entries))
	for _, a := range AllocateOldestFirst(dues, pool) {
		byEntry[a.EntryID] = a
	}

	view := VendorLedgerView{
		Vendor:      vendor,
		Entries:     make([]VendorLedgerLine, 0, len(entries)),
		Payments:    payments,
		TotalBilled: billed,
	}
	for _, e := range entries {
		a := byEntry[e.ID]
		view.Entries = append(view.Entries, VendorLedgerLine{
			PurchaseEntry:      e,
			StockItemName:      e.StockItem.Name,
			AllocatedPaid:      a.AllocatedPaid,
			AllocatedRemaining: a.AllocatedRemaining,
		})
		view.TotalRemaining = utils.SumRound(view.TotalRemaining, a.AllocatedRemaining)
	}
	view.TotalPaid = pool
	if view.TotalPaid > billed {
		// Vendor is overpaid; remaining stays zero rather than negative.
		view.TotalRemaining = 0
	}
	return &view, nil
}

// loadVendorBooks fetches entries and payments in ledger order.
func loadVendorBooks(db *gorm.DB, vendorID uuid.UUID) ([]models.PurchaseEntry, []models.VendorPayment, error) {
	var entries []models.PurchaseEntry
	if err := db.Preload("StockItem").
		Where("vendor_id = ?", vendorID).
		Order("date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, nil, err
	}
	var payments []models.VendorPayment
	if err := db.Where("vendor_id = ?", vendorID).
		Order("date ASC, created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, nil, err
	}
	return entries, payments, nil
}

// allocationFor recomputes the vendor's FIFO allocation inside the
// current transaction and returns the line for one entry.
func allocationFor(tx *gorm.DB, vendorID, entryID uuid.UUID) (EntryAllocation, error) {
	entries, payments, err := loadVendorBooks(tx, vendorID)
	if err != nil {
		return EntryAllocation{}, err
	}
	dues := make([]EntryDue, 0, len(entries))
	pool := 0.0
	for _, e := range entries {
		dues = append(dues, EntryDue{EntryID: e.ID, Date: e.Date, Total: e.TotalPrice})
		pool = utils.SumRound(pool, e.PaidAmount)
	}
	for _, p := range payments {
		pool = utils.SumRound(pool, p.Amount)
	}
	for _, a := range AllocateOldestFirst(dues, pool) {
		if a.EntryID == entryID {
			return a, nil
		}
	}
	return EntryAllocation{EntryID: entryID}, nil
}
