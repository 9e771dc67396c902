// services/bank_ledger.go
//
// Balance transaction coordinator: every bank transaction mutation runs as
// one atomic unit against the owning account's running totals and, for
// project-tagged outflows, the project balance. Edits and deletes reverse
// the original effect in full before applying anything new, so the
// validation of the new state always sees post-reversal reality.
package services

import (
	"errors"

	"buildtrack-backend/models"
	"buildtrack-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BankTransactionInput carries the caller-supplied fields for a create.
type BankTransactionInput struct {
	AccountID   uuid.UUID
	Type        string // models.TransactionInflow / TransactionOutflow
	Amount      float64
	Date        string // YYYY-MM-DD
	Source      string
	Destination string
	Mode        string
	ProjectID   *uuid.UUID
	Notes       string
}

// BankTransactionUpdate carries the editable fields. Type is immutable
// once created.
type BankTransactionUpdate struct {
	Amount       *float64
	Date         *string
	Source       *string
	Destination  *string
	Mode         *string
	ProjectID    *uuid.UUID
	ClearProject bool
	Notes        *string
}

// BankTransactionView is the mutation result with enough denormalized
// context to render without a second lookup.
type BankTransactionView struct {
	models.BankTransaction
	AccountName string `json:"accountName"`
	ProjectName string `json:"projectName,omitempty"`
}

func validateBankTransactionInput(in BankTransactionInput) *Error {
	if in.Amount <= 0 {
		return Validationf("amount must be positive")
	}
	if !utils.IsValidDate(in.Date) {
		return Validationf("date must be YYYY-MM-DD")
	}
	if in.Source == "" || in.Destination == "" {
		return Validationf("source and destination are required")
	}
	if in.Type != models.TransactionInflow && in.Type != models.TransactionOutflow {
		return Validationf("type must be 'inflow' or 'outflow'")
	}
	if in.ProjectID != nil && in.Type != models.TransactionOutflow {
		return Validationf("a project can only be tagged on an outflow")
	}
	return nil
}

// applyTransactionEffect applies a transaction's balance math to the
// loaded account (and project, for tagged outflows). The outflow guard
// runs here so update re-validation naturally sees the reversed state.
func applyTransactionEffect(account *models.BankAccount, project *models.Project, txnType string, amount float64) *Error {
	switch txnType {
	case models.TransactionInflow:
		account.CurrentBalance = utils.SumRound(account.CurrentBalance, amount)
		account.TotalInflow = utils.SumRound(account.TotalInflow, amount)
	case models.TransactionOutflow:
		if account.CurrentBalance < amount {
			return Invariantf("insufficient balance in account %s: have %.2f, need %.2f",
				account.Name, account.CurrentBalance, amount)
		}
		account.CurrentBalance = utils.SumRound(account.CurrentBalance, -amount)
		account.TotalOutflow = utils.SumRound(account.TotalOutflow, amount)
		if project != nil {
			project.Balance = utils.SumRound(project.Balance, amount)
		}
	}
	return nil
}

// reverseTransactionEffect is the exact inverse of applyTransactionEffect.
// Reversing an inflow below the already-spent level, or reversing a
// project-tagged outflow the project can no longer absorb, is blocked as
// an inconsistency guard.
func reverseTransactionEffect(account *models.BankAccount, project *models.Project, txnType string, amount float64) *Error {
	switch txnType {
	case models.TransactionInflow:
		if account.CurrentBalance < amount {
			return Invariantf("cannot reverse inflow of %.2f: account %s balance %.2f is already spent below it",
				amount, account.Name, account.CurrentBalance)
		}
		account.CurrentBalance = utils.SumRound(account.CurrentBalance, -amount)
		account.TotalInflow = utils.SumRound(account.TotalInflow, -amount)
	case models.TransactionOutflow:
		if project != nil {
			if project.Balance < amount {
				return Invariantf("cannot reverse outflow of %.2f: project %s balance %.2f is insufficient",
					amount, project.Name, project.Balance)
			}
			project.Balance = utils.SumRound(project.Balance, -amount)
		}
		account.CurrentBalance = utils.SumRound(account.CurrentBalance, amount)
		account.TotalOutflow = utils.SumRound(account.TotalOutflow, -amount)
	}
	return nil
}

func checkProjectScope(actor Actor, projectID *uuid.UUID) *Error {
	if actor.Role != models.RoleSiteManager || projectID == nil {
		return nil
	}
	if actor.ProjectID == nil || *actor.ProjectID != *projectID {
		return Scopef("site managers may only record transactions for their assigned project")
	}
	return nil
}

// CreateBankTransaction validates, applies and persists a new transaction
// atomically.
func CreateBankTransaction(db *gorm.DB, actor Actor, in BankTransactionInput) (*BankTransactionView, error) {
	if verr := validateBankTransactionInput(in); verr != nil {
		return nil, verr
	}
	if serr := checkProjectScope(actor, in.ProjectID); serr != nil {
		return nil, serr
	}
	in.Amount = utils.Round2(in.Amount)

	var view BankTransactionView
	err := db.Transaction(func(tx *gorm.DB) error {
		var account models.BankAccount
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, in.AccountID).
			First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("bank account not found")
			}
			return err
		}

		var project *models.Project
		if in.ProjectID != nil {
			project = &models.Project{}
			if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, *in.ProjectID).
				First(project).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NotFoundf("project not found")
				}
				return err
			}
		}

		if aerr := applyTransactionEffect(&account, project, in.Type, in.Amount); aerr != nil {
			return aerr
		}

		txn := models.BankTransaction{
			CompanyID:   actor.CompanyID,
			AccountID:   account.ID,
			Type:        in.Type,
			Amount:      in.Amount,
			Date:        in.Date,
			Source:      in.Source,
			Destination: in.Destination,
			Mode:        in.Mode,
			ProjectID:   in.ProjectID,
			Notes:       in.Notes,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		if err := tx.Save(&account).Error; err != nil {
			return err
		}
		if project != nil {
			if err := tx.Save(project).Error; err != nil {
				return err
			}
		}

		view = BankTransactionView{BankTransaction: txn, AccountName: account.Name}
		if project != nil {
			view.ProjectName = project.Name
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionCreate,
			Module:      "bank",
			EntityID:    txn.ID,
			Description: txn.Type + " of " + txn.Date,
			NewValue:    txn,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// mergeTransactionEdit validates the edit and folds it into txn. Type never
// changes. The actor must be in scope for the stored project tag as well as
// for the tag the edit leaves behind; clearing or re-tagging a project is
// still an edit of the stored project's ledger.
func mergeTransactionEdit(actor Actor, txn *models.BankTransaction, in BankTransactionUpdate) *Error {
	if serr := checkProjectScope(actor, txn.ProjectID); serr != nil {
		return serr
	}
	if in.Amount != nil {
		if *in.Amount <= 0 {
			return Validationf("amount must be positive")
		}
		txn.Amount = utils.Round2(*in.Amount)
	}
	if in.Date != nil {
		if !utils.IsValidDate(*in.Date) {
			return Validationf("date must be YYYY-MM-DD")
		}
		txn.Date = *in.Date
	}
	if in.Source != nil {
		if *in.Source == "" {
			return Validationf("source cannot be empty")
		}
		txn.Source = *in.Source
	}
	if in.Destination != nil {
		if *in.Destination == "" {
			return Validationf("destination cannot be empty")
		}
		txn.Destination = *in.Destination
	}
	if in.Mode != nil {
		txn.Mode = *in.Mode
	}
	if in.Notes != nil {
		txn.Notes = *in.Notes
	}
	if in.ClearProject {
		txn.ProjectID = nil
	} else if in.ProjectID != nil {
		txn.ProjectID = in.ProjectID
	}
	if txn.ProjectID != nil && txn.Type != models.TransactionOutflow {
		return Validationf("a project can only be tagged on an outflow")
	}
	return checkProjectScope(actor, txn.ProjectID)
}

// UpdateBankTransaction reverses the stored transaction's effect,
// re-validates the new values against the reversed state, then re-applies.
// Nothing is committed unless every phase succeeds.
func UpdateBankTransaction(db *gorm.DB, actor Actor, id uuid.UUID, in BankTransactionUpdate) (*BankTransactionView, error) {
	var view BankTransactionView
	err := db.Transaction(func(tx *gorm.DB) error {
		var txn models.BankTransaction
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, id).
			First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("bank transaction not found")
			}
			return err
		}
		old := txn

		// Phase 1: fold the edit in. Scope and validation run before any
		// balance math touches the reversed state.
		if serr := mergeTransactionEdit(actor, &txn, in); serr != nil {
			return serr
		}

		var account models.BankAccount
		if err := tx.First(&account, "id = ?", old.AccountID).Error; err != nil {
			return err
		}

		var oldProject *models.Project
		if old.ProjectID != nil {
			oldProject = &models.Project{}
			if err := tx.First(oldProject, "id = ?", *old.ProjectID).Error; err != nil {
				return err
			}
		}

		// Phase 2: return account/project to the pre-transaction baseline.
		if rerr := reverseTransactionEffect(&account, oldProject, old.Type, old.Amount); rerr != nil {
			return rerr
		}

		var newProject *models.Project
		if txn.ProjectID != nil {
			if oldProject != nil && *txn.ProjectID == oldProject.ID {
				newProject = oldProject
			} else {
				newProject = &models.Project{}
				if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, *txn.ProjectID).
					First(newProject).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return NotFoundf("project not found")
					}
					return err
				}
			}
		}

		// Phase 3: re-apply against the already-reversed state.
		if aerr := applyTransactionEffect(&account, newProject, txn.Type, txn.Amount); aerr != nil {
			return aerr
		}

		if err := tx.Save(&txn).Error; err != nil {
			return err
		}
		if err := tx.Save(&account).Error; err != nil {
			return err
		}
		if oldProject != nil {
			if err := tx.Save(oldProject).Error; err != nil {
				return err
			}
		}
		if newProject != nil && newProject != oldProject {
			if err := tx.Save(newProject).Error; err != nil {
				return err
			}
		}

		view = BankTransactionView{BankTransaction: txn, AccountName: account.Name}
		if newProject != nil {
			view.ProjectName = newProject.Name
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionUpdate,
			Module:      "bank",
			EntityID:    txn.ID,
			Description: txn.Type + " edited",
			OldValue:    old,
			NewValue:    txn,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// DeleteBankTransaction reverses the transaction's effect and removes the
// record in one atomic unit.
func DeleteBankTransaction(db *gorm.DB, actor Actor, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var txn models.BankTransaction
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, id).
			First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("bank transaction not found")
			}
			return err
		}
		if serr := checkProjectScope(actor, txn.ProjectID); serr != nil {
			return serr
		}

		var account models.BankAccount
		if err := tx.First(&account, "id = ?", txn.AccountID).Error; err != nil {
			return err
		}

		var project *models.Project
		if txn.ProjectID != nil {
			project = &models.Project{}
			if err := tx.First(project, "id = ?", *txn.ProjectID).Error; err != nil {
				return err
			}
		}

		if rerr := reverseTransactionEffect(&account, project, txn.Type, txn.Amount); rerr != nil {
			return rerr
		}

		if err := tx.Delete(&txn).Error; err != nil {
			return err
		}
		if err := tx.Save(&account).Error; err != nil {
			return err
		}
		if project != nil {
			if err := tx.Save(project).Error; err != nil {
				return err
			}
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionDelete,
			Module:      "bank",
			EntityID:    txn.ID,
			Description: txn.Type + " reversed and removed",
			OldValue:    txn,
		})
		return nil
	})
}

// AccountStatement returns an account with its transactions, newest first.
func AccountStatement(db *gorm.DB, actor Actor, accountID uuid.UUID) (*models.BankAccount, []models.BankTransaction, error) {
	var account models.BankAccount
	if err := db.Where("company_id = ? AND id = ?", actor.CompanyID, accountID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NotFoundf("bank account not found")
		}
		return nil, nil, err
	}

	var txns []models.BankTransaction
	if err := db.Preload("Project").
		Where("account_id = ?", accountID).
		Order("date DESC, created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, nil, err
	}
	return &account, txns, nil
}
