// controllers/respond.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"buildtrack-backend/config"
	"buildtrack-backend/services"
	"buildtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentActor builds the service-layer actor from the JWT claims the
// auth middleware put on the context. Responds 401 itself on failure.
func currentActor(c *gin.Context) (services.Actor, bool) {
	userID, _ := c.Get("userId")
	companyID, _ := c.Get("companyId")
	role, _ := c.Get("role")
	projectID, _ := c.Get("projectId")

	uid, err := uuid.Parse(fmt.Sprint(userID))
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return services.Actor{}, false
	}
	cid, err := uuid.Parse(fmt.Sprint(companyID))
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid company identity")
		return services.Actor{}, false
	}

	actor := services.Actor{ID: uid, CompanyID: cid, Role: fmt.Sprint(role)}
	if s := fmt.Sprint(projectID); s != "" && s != "<nil>" {
		if pid, err := uuid.Parse(s); err == nil {
			actor.ProjectID = &pid
		}
	}
	return actor, true
}

// parseIDParam reads a uuid path parameter. Responds 400 itself on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError maps service error kinds onto HTTP statuses.
// Anything that is not a typed service error is a 500 and gets logged.
func handleServiceError(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case services.KindValidation:
			utils.RespondWithError(c, http.StatusBadRequest, svcErr.Message)
		case services.KindNotFound:
			utils.RespondWithError(c, http.StatusNotFound, svcErr.Message)
		case services.KindScope:
			utils.RespondWithError(c, http.StatusForbidden, svcErr.Message)
		case services.KindInvariant:
			utils.RespondWithError(c, http.StatusConflict, svcErr.Message)
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, svcErr.Message)
		}
		return
	}

	config.LogError(config.GetLogger(), "controllers", "handleServiceError", c.FullPath(), err)
	utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}
