package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"buildtrack-backend/config"
	"buildtrack-backend/models"
	"buildtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Password       string `json:"password" binding:"required,min=8"`
	CompanyName    string `json:"companyName" binding:"required"`
	CompanyAddress string `json:"companyAddress"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // email or phone
	Password   string `json:"password" binding:"required"`
}

type SiteManagerInput struct {
	Email     string    `json:"email" binding:"required,email"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name" binding:"required"`
	Password  string    `json:"password" binding:"required,min=8"`
	ProjectID uuid.UUID `json:"projectId" binding:"required"`
}

// Register creates the company and its owner account in one transaction.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existingUser models.User
	result := config.DB.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var newUser models.User
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		company := models.Company{
			Name:       input.CompanyName,
			Address:    input.CompanyAddress,
			OwnerPhone: input.Phone,
		}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}

		newUser = models.User{
			Email:     input.Email,
			Phone:     input.Phone,
			Name:      input.Name,
			Password:  input.Password, // hashed in BeforeCreate hook
			Role:      models.RoleOwner,
			CompanyID: company.ID,
		}
		return tx.Create(&newUser).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := utils.GenerateToken(newUser.ID.String(), newUser.CompanyID.String(), newUser.Role, "")
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	setAuthCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user": gin.H{
			"id":          newUser.ID,
			"email":       newUser.Email,
			"phone":       newUser.Phone,
			"role":        newUser.Role,
			"companyId":   newUser.CompanyID,
			"companyName": input.CompanyName,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user models.User
	result := config.DB.Where("email = ? OR phone = ?", identifier, identifier).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if !user.IsActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account is disabled")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	projectID := ""
	if user.AssignedProjectID != nil {
		projectID = user.AssignedProjectID.String()
	}
	token, err := utils.GenerateToken(user.ID.String(), user.CompanyID.String(), user.Role, projectID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"name":      user.Name,
			"role":      user.Role,
			"companyId": user.CompanyID,
			"projectId": user.AssignedProjectID,
		},
	})
}

func setAuthCookie(c *gin.Context, token string) {
	expiryHours := 24
	maxAge := expiryHours * 3600
	c.SetCookie("token", token, maxAge, "/", "", true, true)
}

// CreateSiteManager adds a project-scoped user. Owner only (via route
// middleware).
func CreateSiteManager(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input SiteManagerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var project models.Project
	if err := config.DB.Where("company_id = ? AND id = ?", actor.CompanyID, input.ProjectID).
		First(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	}

	manager := models.User{
		Email:             input.Email,
		Phone:             input.Phone,
		Name:              input.Name,
		Password:          input.Password,
		Role:              models.RoleSiteManager,
		CompanyID:         actor.CompanyID,
		AssignedProjectID: &project.ID,
	}
	if err := config.DB.Create(&manager).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create site manager")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":        manager.ID,
			"email":     manager.Email,
			"name":      manager.Name,
			"role":      manager.Role,
			"projectId": manager.AssignedProjectID,
		},
	})
}

func Me(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusInternalServerError, "User ID not found in context")
		return
	}

	var user models.User
	if err := config.DB.Preload("Company").First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"name":        user.Name,
			"phone":       user.Phone,
			"role":        user.Role,
			"companyId":   user.CompanyID,
			"companyName": user.Company.Name,
			"projectId":   user.AssignedProjectID,
		},
	})
}
