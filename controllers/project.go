package controllers

import (
	"net/http"

	"buildtrack-backend/config"
	"buildtrack-backend/models"
	"buildtrack-backend/utils"

	"github.com/gin-gonic/gin"
)

type ProjectInput struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Client   string `json:"client"`
	Notes    string `json:"notes"`
}

type ProjectUpdateInput struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Client   *string `json:"client"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

func CreateProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	project := models.Project{
		CompanyID: actor.CompanyID,
		Name:      input.Name,
		Location:  input.Location,
		Client:    input.Client,
		Notes:     input.Notes,
	}
	if err := config.DB.Create(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func ListProjects(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	query := config.DB.Where("company_id = ?", actor.CompanyID)
	// Site managers only see their assigned project.
	if actor.Role == models.RoleSiteManager && actor.ProjectID != nil {
		query = query.Where("id = ?", *actor.ProjectID)
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func GetProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if actor.Role == models.RoleSiteManager {
		if actor.ProjectID == nil || *actor.ProjectID != id {
			utils.RespondWithError(c, http.StatusForbidden, "Not your assigned project")
			return
		}
	}

	var project models.Project
	if err := config.DB.Where("company_id = ? AND id = ?", actor.CompanyID, id).
		First(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

func UpdateProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input ProjectUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var project models.Project
	if err := config.DB.Where("company_id = ? AND id = ?", actor.CompanyID, id).
		First(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		return
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Location != nil {
		project.Location = *input.Location
	}
	if input.Client != nil {
		project.Client = *input.Client
	}
	if input.Notes != nil {
		project.Notes = *input.Notes
	}
	if input.IsActive != nil {
		project.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject refuses while the project still carries funded balance;
// the bank ledger owns that number and deleting would orphan it.
func DeleteProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := config.DB.Where("company_id = ? AND id = ?", actor.CompanyID, id).
		First(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		return
	}
	if project.Balance != 0 {
		utils.RespondWithError(c, http.StatusConflict, "Project still has funded balance; reverse its bank outflows first")
		return
	}

	if err := config.DB.Delete(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
