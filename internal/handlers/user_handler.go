package handlers

import (
	"errors"
	"net/http"

	"teamwork/internal/responses"
	"teamwork/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	projectService *services.ProjectService
}

func NewUserHandler(projectService *services.ProjectService) *UserHandler {
	return &UserHandler{projectService: projectService}
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	user, err := h.projectService.ResolveActor(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			responses.Fail(c, http.StatusNotFound, err, "User not found")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, nil, "Failed to retrieve user")
		return
	}

	responses.Success(c, http.StatusOK, user, "User retrieved successfully")
}
