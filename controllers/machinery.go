package controllers

import (
	"net/http"

	"buildtrack-backend/config"
	"buildtrack-backend/models"
	"buildtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MachineryInput struct {
	Name       string     `json:"name" binding:"required"`
	Identifier string     `json:"identifier"`
	Status     string     `json:"status" binding:"omitempty,oneof=idle on_site maintenance"`
	Notes      string     `json:"notes"`
	ProjectID  *uuid.UUID `json:"projectId"`
}

type MachineryUpdateInput struct {
	Name       *string    `json:"name"`
	Identifier *string    `json:"identifier"`
	Status     *string    `json:"status" binding:"omitempty,oneof=idle on_site maintenance"`
	Notes      *string    `json:"notes"`
	ProjectID  *uuid.UUID `json:"projectId"`
	IsActive   *bool      `json:"isActive"`
}

func CreateMachinery(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input MachineryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	machinery := models.Machinery{
		CompanyID:  actor.CompanyID,
		Name:       input.Name,
		Identifier: input.Identifier,
		Notes:      input.Notes,
		ProjectID:  input.ProjectID,
	}
	if input.Status != "" {
		machinery.Status = input.Status
	}
	if err := config.DB.Create(&machinery).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create machinery")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"machinery": machinery})
}

func ListMachinery(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var machines []models.Machinery
	if err := config.DB.Where("company_id = ?", actor.CompanyID).
		Order("name ASC").Find(&machines).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch machinery")
		return
	}

	c.JSON(http.StatusOK, gin.H{"machinery": machines})
}

func UpdateMachinery(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input MachineryUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var machinery models.Machinery
	if err := config.DB.Where("company_id = ? AND id = ?", actor.CompanyID, id).
		First(&machinery).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Machinery not found")
		return
	}

	if input.Name != nil {
		machinery.Name = *input.Name
	}
	if input.Identifier != nil {
		machinery.Identifier = *input.Identifier
	}
	if input.Status != nil {
		machinery.Status = *input.Status
	}
	if input.Notes != nil {
		machinery.Notes = *input.Notes
	}
	if input.ProjectID != nil {
		machinery.ProjectID = input.ProjectID
	}
	if input.IsActive != nil {
		machinery.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&machinery).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update machinery")
		return
	}

	c.JSON(http.StatusOK, gin.H{"machinery": machinery})
}

func DeleteMachinery(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("company_id = ? AND id = ?", actor.CompanyID, id).
		Delete(&models.Machinery{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete machinery")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Machinery not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Machinery deleted"})
}
