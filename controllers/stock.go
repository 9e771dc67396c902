package controllers

import (
	"errors"
	"net/http"

	"buildtrack-backend/config"
	"buildtrack-backend/models"
	"buildtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errInsufficientStock = errors.New("insufficient stock")

type StockItemInput struct {
	Name string `json:"name" binding:"required"`
	Unit string `json:"unit"`
}

type StockUsageRequest struct {
	StockItemID uuid.UUID  `json:"stockItemId" binding:"required"`
	ProjectID   *uuid.UUID `json:"projectId"`
	Quantity    float64    `json:"quantity" binding:"required"`
	Date        string     `json:"date" binding:"required,ledgerdate"`
	Notes       string     `json:"notes"`
}

func CreateStockItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input StockItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	item := models.StockItem{
		CompanyID: actor.CompanyID,
		Name:      input.Name,
		Unit:      input.Unit,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create stock item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func ListStockItems(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var items []models.StockItem
	if err := config.DB.Where("company_id = ?", actor.CompanyID).
		Order("name ASC").Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch stock items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// RecordStockUsage consumes stock. The running quantity may never go
// negative, so the decrement and the guard run inside one transaction.
func RecordStockUsage(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input StockUsageRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Quantity <= 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Quantity must be positive")
		return
	}

	var usage models.StockUsage
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var item models.StockItem
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, input.StockItemID).
			First(&item).Error; err != nil {
			return err
		}
		if item.Quantity < input.Quantity {
			return errInsufficientStock
		}

		item.Quantity = utils.SumRound(item.Quantity, -input.Quantity)
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		usage = models.StockUsage{
			CompanyID:   actor.CompanyID,
			StockItemID: item.ID,
			ProjectID:   input.ProjectID,
			Quantity:    input.Quantity,
			Date:        input.Date,
			Notes:       input.Notes,
		}
		return tx.Create(&usage).Error
	})
	if err != nil {
		if errors.Is(err, errInsufficientStock) {
			utils.RespondWithError(c, http.StatusConflict, "Not enough stock on hand")
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Stock item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record usage")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"usage": usage})
}

// DeleteStockUsage restores the consumed quantity.
func DeleteStockUsage(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var usage models.StockUsage
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, id).
			First(&usage).Error; err != nil {
			return err
		}

		var item models.StockItem
		if err := tx.First(&item, "id = ?", usage.StockItemID).Error; err != nil {
			return err
		}
		item.Quantity = utils.SumRound(item.Quantity, usage.Quantity)
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return tx.Delete(&usage).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Stock usage not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete usage")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock usage deleted"})
}

// ListStockUsage returns usage records, optionally per item.
func ListStockUsage(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	query := config.DB.Preload("StockItem").Where("company_id = ?", actor.CompanyID)
	if itemID := c.Query("itemId"); itemID != "" {
		id, err := uuid.Parse(itemID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid itemId")
			return
		}
		query = query.Where("stock_item_id = ?", id)
	}

	var usages []models.StockUsage
	if err := query.Order("date DESC").Find(&usages).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch usage records")
		return
	}

	c.JSON(http.StatusOK, gin.H{"usages": usages})
}
