package controllers

import (
	"net/http"

	"buildtrack-backend/config"
	"buildtrack-backend/models"
	"buildtrack-backend/services"
	"buildtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BankAccountInput struct {
	Name           string  `json:"name" binding:"required"`
	BankName       string  `json:"bankName"`
	AccountNumber  string  `json:"accountNumber"`
	OpeningBalance float64 `json:"openingBalance"`
}

type BankAccountUpdateInput struct {
	Name          *string `json:"name"`
	BankName      *string `json:"bankName"`
	AccountNumber *string `json:"accountNumber"`
	IsActive      *bool   `json:"isActive"`
}

type BankTransactionRequest struct {
	AccountID   uuid.UUID  `json:"accountId" binding:"required"`
	Type        string     `json:"type" binding:"required,oneof=inflow outflow"`
	Amount      float64    `json:"amount" binding:"required"`
	Date        string     `json:"date" binding:"required,ledgerdate"`
	Source      string     `json:"source" binding:"required"`
	Destination string     `json:"destination" binding:"required"`
	Mode        string     `json:"mode"`
	ProjectID   *uuid.UUID `json:"projectId"`
	Notes       string     `json:"notes"`
}

type BankTransactionUpdateRequest struct {
	Amount       *float64   `json:"amount"`
	Date         *string    `json:"date"`
	Source       *string    `json:"source"`
	Destination  *string    `json:"destination"`
	Mode         *string    `json:"mode"`
	ProjectID    *uuid.UUID `json:"projectId"`
	ClearProject bool       `json:"clearProject"`
	Notes        *string    `json:"notes"`
}

func CreateBankAccount(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input BankAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.OpeningBalance < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Opening balance cannot be negative")
		return
	}

	account := models.BankAccount{
		CompanyID:      actor.CompanyID,
		Name:           input.Name,
		BankName:       input.BankName,
		AccountNumber:  input.AccountNumber,
		OpeningBalance: utils.Round2(input.OpeningBalance),
		CurrentBalance: utils.Round2(input.OpeningBalance),
	}
	if err := config.DB.Create(&account).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create bank account")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

func ListBankAccounts(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var accounts []models.BankAccount
	if err := config.DB.Where("company_id = ?", actor.CompanyID).
		Order("name ASC").Find(&accounts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch bank accounts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func UpdateBankAccount(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input BankAccountUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var account models.BankAccount
	if err := config.DB.Where("company_id = ? AND id = ?", actor.CompanyID, id).
		First(&account).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Bank account not found")
		return
	}

	// Balances are never edited here; only the ledger moves them.
	if input.Name != nil {
		account.Name = *input.Name
	}
	if input.BankName != nil {
		account.BankName = *input.BankName
	}
	if input.AccountNumber != nil {
		account.AccountNumber = *input.AccountNumber
	}
	if input.IsActive != nil {
		account.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&account).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update bank account")
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// GetAccountStatement returns the account with its transactions.
func GetAccountStatement(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	account, txns, err := services.AccountStatement(config.DB, actor, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":      account,
		"transactions": txns,
	})
}

func CreateBankTransaction(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input BankTransactionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	view, err := services.CreateBankTransaction(config.DB, actor, services.BankTransactionInput{
		AccountID:   input.AccountID,
		Type:        input.Type,
		Amount:      input.Amount,
		Date:        input.Date,
		Source:      input.Source,
		Destination: input.Destination,
		Mode:        input.Mode,
		ProjectID:   input.ProjectID,
		Notes:       input.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": view})
}

func UpdateBankTransaction(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input BankTransactionUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	view, err := services.UpdateBankTransaction(config.DB, actor, id, services.BankTransactionUpdate{
		Amount:       input.Amount,
		Date:         input.Date,
		Source:       input.Source,
		Destination:  input.Destination,
		Mode:         input.Mode,
		ProjectID:    input.ProjectID,
		ClearProject: input.ClearProject,
		Notes:        input.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": view})
}

func DeleteBankTransaction(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteBankTransaction(config.DB, actor, id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bank transaction deleted"})
}
