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

type VendorInput struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type VendorUpdateInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

type PurchaseEntryRequest struct {
	VendorID    uuid.UUID `json:"vendorId" binding:"required"`
	StockItemID uuid.UUID `json:"stockItemId" binding:"required"`
	Quantity    float64   `json:"quantity" binding:"required"`
	UnitPrice   float64   `json:"unitPrice" binding:"required"`
	PaidAmount  float64   `json:"paidAmount"`
	Date        string    `json:"date" binding:"required,ledgerdate"`
	Notes       string    `json:"notes"`
}

type PurchaseEntryUpdateRequest struct {
	Quantity   *float64 `json:"quantity"`
	UnitPrice  *float64 `json:"unitPrice"`
	PaidAmount *float64 `json:"paidAmount"`
	Date       *string  `json:"date"`
	Notes      *string  `json:"notes"`
}

type VendorPaymentRequest struct {
	VendorID uuid.UUID `json:"vendorId" binding:"required"`
	Amount   float64   `json:"amount" binding:"required"`
	Date     string    `json:"date" binding:"required,ledgerdate"`
	Method   string    `json:"method"`
	Notes    string    `json:"notes"`
}

func CreateVendor(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input VendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	vendor := models.Vendor{
		CompanyID: actor.CompanyID,
		Name:      input.Name,
		Phone:     input.Phone,
		Address:   input.Address,
		Notes:     input.Notes,
	}
	if err := config.DB.Create(&vendor).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create vendor")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vendor": vendor})
}

func ListVendors(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var vendors []models.Vendor
	if err := config.DB.Where("company_id = ?", actor.CompanyID).
		Order("name ASC").Find(&vendors).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch vendors")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

func UpdateVendor(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input VendorUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var vendor models.Vendor
	if err := config.DB.Where("company_id = ? AND id = ?", actor.CompanyID, id).
		First(&vendor).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Vendor not found")
		return
	}

	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.Phone != nil {
		vendor.Phone = *input.Phone
	}
	if input.Address != nil {
		vendor.Address = *input.Address
	}
	if input.Notes != nil {
		vendor.Notes = *input.Notes
	}
	if input.IsActive != nil {
		vendor.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&vendor).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update vendor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// GetVendorLedger returns the FIFO-reconciled ledger view.
func GetVendorLedger(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := services.VendorLedger(config.DB, actor, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ledger": view})
}

func CreatePurchaseEntry(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input PurchaseEntryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	view, err := services.CreatePurchaseEntry(config.DB, actor, services.PurchaseEntryInput{
		VendorID:    input.VendorID,
		StockItemID: input.StockItemID,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		PaidAmount:  input.PaidAmount,
		Date:        input.Date,
		Notes:       input.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": view})
}

func UpdatePurchaseEntry(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input PurchaseEntryUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	view, err := services.UpdatePurchaseEntry(config.DB, actor, id, services.PurchaseEntryUpdate{
		Quantity:   input.Quantity,
		UnitPrice:  input.UnitPrice,
		PaidAmount: input.PaidAmount,
		Date:       input.Date,
		Notes:      input.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": view})
}

func DeletePurchaseEntry(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeletePurchaseEntry(config.DB, actor, id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Purchase entry deleted"})
}

func CreateVendorPayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input VendorPaymentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := services.CreateVendorPayment(config.DB, actor, services.VendorPaymentInput{
		VendorID: input.VendorID,
		Amount:   input.Amount,
		Date:     input.Date,
		Method:   input.Method,
		Notes:    input.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

func DeleteVendorPayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteVendorPayment(config.DB, actor, id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vendor payment deleted"})
}
