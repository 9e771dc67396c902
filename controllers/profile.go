package controllers

import (
	"net/http"

	"buildtrack-backend/config"
	"buildtrack-backend/models"
	"buildtrack-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateCompanyInput struct {
	Name                  *string `json:"name"`
	Address               *string `json:"address"`
	OwnerPhone            *string `json:"ownerPhone"`
	DuesReminders         *bool   `json:"duesReminders"`
	WhatsAppNotifications *bool   `json:"whatsAppNotifications"`
	SMSNotifications      *bool   `json:"smsNotifications"`
}

func GetCompanyProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var company models.Company
	if err := config.DB.First(&company, "id = ?", actor.CompanyID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Company not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":                  company.Name,
		"address":               company.Address,
		"ownerPhone":            company.OwnerPhone,
		"duesReminders":         company.DuesReminders,
		"whatsAppNotifications": company.WhatsAppNotifications,
		"smsNotifications":      company.SMSNotifications,
	})
}

// UpdateCompanyProfile edits company details and notification settings.
// Owner only (via route middleware).
func UpdateCompanyProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input UpdateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var company models.Company
	if err := config.DB.First(&company, "id = ?", actor.CompanyID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Company not found")
		return
	}

	if input.Name != nil {
		company.Name = *input.Name
	}
	if input.Address != nil {
		company.Address = *input.Address
	}
	if input.OwnerPhone != nil {
		if *input.OwnerPhone != "" && !utils.ValidatePhone(*input.OwnerPhone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
			return
		}
		company.OwnerPhone = *input.OwnerPhone
	}
	if input.DuesReminders != nil {
		company.DuesReminders = *input.DuesReminders
	}
	if input.WhatsAppNotifications != nil {
		company.WhatsAppNotifications = *input.WhatsAppNotifications
	}
	if input.SMSNotifications != nil {
		company.SMSNotifications = *input.SMSNotifications
	}

	if err := config.DB.Save(&company).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update company")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company updated"})
}
