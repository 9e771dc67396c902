package services

import (
	"testing"

	"buildtrack-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyInflowEffect(t *testing.T) {
	account := models.BankAccount{CurrentBalance: 1000, TotalInflow: 5000, TotalOutflow: 4000}

	err := applyTransactionEffect(&account, nil, models.TransactionInflow, 250)
	require.Nil(t, err)
	assert.Equal(t, 1250.0, account.CurrentBalance)
	assert.Equal(t, 5250.0, account.TotalInflow)
	assert.Equal(t, 4000.0, account.TotalOutflow)
}

func TestApplyOutflowEffectWithProject(t *testing.T) {
	account := models.BankAccount{CurrentBalance: 1000}
	project := models.Project{Balance: 300}

	err := applyTransactionEffect(&account, &project, models.TransactionOutflow, 400)
	require.Nil(t, err)
	assert.Equal(t, 600.0, account.CurrentBalance)
	assert.Equal(t, 400.0, account.TotalOutflow)
	assert.Equal(t, 700.0, project.Balance)
}

func TestApplyOutflowInsufficientBalance(t *testing.T) {
	account := models.BankAccount{Name: "Main", CurrentBalance: 100}

	err := applyTransactionEffect(&account, nil, models.TransactionOutflow, 100.01)
	require.NotNil(t, err)
	assert.Equal(t, KindInvariant, err.Kind)
	// Nothing mutated on failure.
	assert.Equal(t, 100.0, account.CurrentBalance)
	assert.Equal(t, 0.0, account.TotalOutflow)
}

func TestApplyOutflowExactBalance(t *testing.T) {
	account := models.BankAccount{CurrentBalance: 100}

	err := applyTransactionEffect(&account, nil, models.TransactionOutflow, 100)
	require.Nil(t, err)
	assert.Equal(t, 0.0, account.CurrentBalance)
}

func TestReverseUndoesApply(t *testing.T) {
	account := models.BankAccount{CurrentBalance: 1000, TotalInflow: 1000}
	project := models.Project{Balance: 200}

	require.Nil(t, applyTransactionEffect(&account, &project, models.TransactionOutflow, 350))
	require.Nil(t, reverseTransactionEffect(&account, &project, models.TransactionOutflow, 350))

	assert.Equal(t, 1000.0, account.CurrentBalance)
	assert.Equal(t, 0.0, account.TotalOutflow)
	assert.Equal(t, 200.0, project.Balance)

	require.Nil(t, applyTransactionEffect(&account, nil, models.TransactionInflow, 75.50))
	require.Nil(t, reverseTransactionEffect(&account, nil, models.TransactionInflow, 75.50))
	assert.Equal(t, 1000.0, account.CurrentBalance)
	assert.Equal(t, 1000.0, account.TotalInflow)
}

func TestReverseInflowBelowSpentLevel(t *testing.T) {
	// 500 came in, 400 of it already left. The inflow cannot be reversed.
	account := models.BankAccount{Name: "Main", CurrentBalance: 100, TotalInflow: 500, TotalOutflow: 400}

	err := reverseTransactionEffect(&account, nil, models.TransactionInflow, 500)
	require.NotNil(t, err)
	assert.Equal(t, KindInvariant, err.Kind)
	assert.Equal(t, 100.0, account.CurrentBalance)
}

func TestReverseOutflowProjectCannotAbsorb(t *testing.T) {
	account := models.BankAccount{CurrentBalance: 100}
	project := models.Project{Name: "Tower A", Balance: 50}

	err := reverseTransactionEffect(&account, &project, models.TransactionOutflow, 80)
	require.NotNil(t, err)
	assert.Equal(t, KindInvariant, err.Kind)
	assert.Equal(t, 50.0, project.Balance)
	assert.Equal(t, 100.0, account.CurrentBalance)
}

func TestValidateBankTransactionInput(t *testing.T) {
	projectID := uuid.New()
	valid := BankTransactionInput{
		AccountID:   uuid.New(),
		Type:        models.TransactionOutflow,
		Amount:      500,
		Date:        "2026-04-10",
		Source:      "Main account",
		Destination: "Steel supplier",
		ProjectID:   &projectID,
	}
	assert.Nil(t, validateBankTransactionInput(valid))

	cases := []struct {
		name   string
		mutate func(*BankTransactionInput)
	}{
		{"zero amount", func(in *BankTransactionInput) { in.Amount = 0 }},
		{"negative amount", func(in *BankTransactionInput) { in.Amount = -10 }},
		{"bad date", func(in *BankTransactionInput) { in.Date = "10-04-2026" }},
		{"empty source", func(in *BankTransactionInput) { in.Source = "" }},
		{"empty destination", func(in *BankTransactionInput) { in.Destination = "" }},
		{"unknown type", func(in *BankTransactionInput) { in.Type = "transfer" }},
		{"project on inflow", func(in *BankTransactionInput) { in.Type = models.TransactionInflow }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			err := validateBankTransactionInput(in)
			require.NotNil(t, err)
			assert.Equal(t, KindValidation, err.Kind)
		})
	}
}

func TestMergeTransactionEditChecksStoredProject(t *testing.T) {
	mine := uuid.New()
	other := uuid.New()
	manager := Actor{Role: models.RoleSiteManager, ProjectID: &mine}

	// Clearing another project's tag is still an edit of that project's
	// ledger and must stay out of reach.
	txn := models.BankTransaction{Type: models.TransactionOutflow, Amount: 500, ProjectID: &other}
	err := mergeTransactionEdit(manager, &txn, BankTransactionUpdate{ClearProject: true})
	require.NotNil(t, err)
	assert.Equal(t, KindScope, err.Kind)
	require.NotNil(t, txn.ProjectID)
	assert.Equal(t, other, *txn.ProjectID)

	// Re-tagging it to the manager's own project is no better.
	txn = models.BankTransaction{Type: models.TransactionOutflow, Amount: 500, ProjectID: &other}
	err = mergeTransactionEdit(manager, &txn, BankTransactionUpdate{ProjectID: &mine})
	require.NotNil(t, err)
	assert.Equal(t, KindScope, err.Kind)
}

func TestMergeTransactionEditWithinScope(t *testing.T) {
	mine := uuid.New()
	manager := Actor{Role: models.RoleSiteManager, ProjectID: &mine}

	amount := 750.0
	txn := models.BankTransaction{Type: models.TransactionOutflow, Amount: 500, ProjectID: &mine}
	require.Nil(t, mergeTransactionEdit(manager, &txn, BankTransactionUpdate{Amount: &amount, ClearProject: true}))
	assert.Equal(t, 750.0, txn.Amount)
	assert.Nil(t, txn.ProjectID)
}

func TestMergeTransactionEditRejectsProjectOnInflow(t *testing.T) {
	projectID := uuid.New()
	owner := Actor{Role: models.RoleOwner}

	txn := models.BankTransaction{Type: models.TransactionInflow, Amount: 200}
	err := mergeTransactionEdit(owner, &txn, BankTransactionUpdate{ProjectID: &projectID})
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

func TestCheckProjectScope(t *testing.T) {
	assigned := uuid.New()
	other := uuid.New()

	owner := Actor{Role: models.RoleOwner}
	assert.Nil(t, checkProjectScope(owner, &other))

	manager := Actor{Role: models.RoleSiteManager, ProjectID: &assigned}
	assert.Nil(t, checkProjectScope(manager, &assigned))
	assert.Nil(t, checkProjectScope(manager, nil))

	err := checkProjectScope(manager, &other)
	require.NotNil(t, err)
	assert.Equal(t, KindScope, err.Kind)

	unassigned := Actor{Role: models.RoleSiteManager}
	err = checkProjectScope(unassigned, &assigned)
	require.NotNil(t, err)
	assert.Equal(t, KindScope, err.Kind)
}
