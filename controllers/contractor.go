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

type ContractorInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Trade string `json:"trade"`
	Notes string `json:"notes"`
}

type ContractorUpdateInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Trade    *string `json:"trade"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

type ContractorEntryRequest struct {
	ContractorID uuid.UUID `json:"contractorId" binding:"required"`
	Description  string    `json:"description"`
	Amount       float64   `json:"amount" binding:"required"`
	PaidAmount   float64   `json:"paidAmount"`
	Date         string    `json:"date" binding:"required,ledgerdate"`
}

type ContractorEntryUpdateRequest struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	PaidAmount  *float64 `json:"paidAmount"`
	Date        *string  `json:"date"`
}

type ContractorPaymentRequest struct {
	ContractorID uuid.UUID `json:"contractorId" binding:"required"`
	Amount       float64   `json:"amount" binding:"required"`
	Date         string    `json:"date" binding:"required,ledgerdate"`
	Method       string    `json:"method"`
	Notes        string    `json:"notes"`
}

type ContractorPaymentUpdateRequest struct {
	Amount *float64 `json:"amount"`
	Date   *string  `json:"date"`
	Method *string  `json:"method"`
	Notes  *string  `json:"notes"`
}

func CreateContractor(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input ContractorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	contractor := models.Contractor{
		CompanyID: actor.CompanyID,
		Name:      input.Name,
		Phone:     input.Phone,
		Trade:     input.Trade,
		Notes:     input.Notes,
	}
	if err := config.DB.Create(&contractor).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create contractor")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contractor": contractor})
}

func ListContractors(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var contractors []models.Contractor
	if err := config.DB.Where("company_id = ?", actor.CompanyID).
		Order("name ASC").Find(&contractors).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch contractors")
		return
	}

	c.JSON(http.StatusOK, gin.H{"contractors": contractors})
}

func UpdateContractor(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input ContractorUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var contractor models.Contractor
	if err := config.DB.Where("company_id = ? AND id = ?", actor.CompanyID, id).
		First(&contractor).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Contractor not found")
		return
	}

	if input.Name != nil {
		contractor.Name = *input.Name
	}
	if input.Phone != nil {
		contractor.Phone = *input.Phone
	}
	if input.Trade != nil {
		contractor.Trade = *input.Trade
	}
	if input.Notes != nil {
		contractor.Notes = *input.Notes
	}
	if input.IsActive != nil {
		contractor.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&contractor).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update contractor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"contractor": contractor})
}

// GetContractorLedger returns the ledger with persisted allocations.
func GetContractorLedger(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := services.ContractorLedger(config.DB, actor, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ledger": view})
}

func CreateContractorEntry(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input ContractorEntryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	entry, err := services.CreateContractorEntry(config.DB, actor, services.ContractorEntryInput{
		ContractorID: input.ContractorID,
		Description:  input.Description,
		Amount:       input.Amount,
		PaidAmount:   input.PaidAmount,
		Date:         input.Date,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

func UpdateContractorEntry(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input ContractorEntryUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	entry, err := services.UpdateContractorEntry(config.DB, actor, id, services.ContractorEntryUpdate{
		Description: input.Description,
		Amount:      input.Amount,
		PaidAmount:  input.PaidAmount,
		Date:        input.Date,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func DeleteContractorEntry(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteContractorEntry(config.DB, actor, id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contractor entry deleted"})
}

func CreateContractorPayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input ContractorPaymentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := services.CreateContractorPayment(config.DB, actor, services.ContractorPaymentInput{
		ContractorID: input.ContractorID,
		Amount:       input.Amount,
		Date:         input.Date,
		Method:       input.Method,
		Notes:        input.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

func UpdateContractorPayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input ContractorPaymentUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := services.UpdateContractorPayment(config.DB, actor, id, services.ContractorPaymentUpdate{
		Amount: input.Amount,
		Date:   input.Date,
		Method: input.Method,
		Notes:  input.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

func DeleteContractorPayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteContractorPayment(config.DB, actor, id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contractor payment deleted"})
}
