// controllers/reminder.go
package controllers

import (
	"net/http"
	"strconv"

	"buildtrack-backend/config"
	"buildtrack-backend/models"
	"buildtrack-backend/utils"

	"github.com/gin-gonic/gin"
)

// ListReminderLogs returns the dues reminder send history, newest first.
func ListReminderLogs(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	limit := 50
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	var logs []models.ReminderLog
	if err := config.DB.Where("company_id = ?", actor.CompanyID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch reminder logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// ListAuditLogs returns the change history, newest first. Owner only
// (via route middleware).
func ListAuditLogs(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	limit := 100
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	query := config.DB.Where("company_id = ?", actor.CompanyID)
	if module := c.Query("module"); module != "" {
		query = query.Where("module = ?", module)
	}

	var logs []models.AuditLog
	if err := query.Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch audit logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
