package handlers

import (
	"errors"
	"net/http"

	"teamwork/internal/middlewares"
	"teamwork/internal/models"
	"teamwork/internal/responses"
	"teamwork/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	logger         *zap.Logger
}

func NewProjectHandler(projectService *services.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// CreateProject handles POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusUnprocessableEntity, err, "Invalid request body")
		return
	}

	result, err := h.projectService.CreateProject(c.Request.Context(), actor, req)
	if err != nil {
		h.fail(c, err, "Failed to create project")
		return
	}

	responses.Success(c, http.StatusCreated, result, "Project created successfully")
}

// ListProjects handles GET /api/v1/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListMyProjects(c.Request.Context(), actor)
	if err != nil {
		h.fail(c, err, "Failed to list projects")
		return
	}

	responses.Success(c, http.StatusOK, projects, "Projects retrieved successfully")
}

// GetProject handles GET /api/v1/projects/:slug
func (h *ProjectHandler) GetProject(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}

	detail, err := h.projectService.GetProject(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err, "Failed to retrieve project")
		return
	}

	responses.Success(c, http.StatusOK, detail, "Project retrieved successfully")
}

// EditProject handles PUT /api/v1/projects/:slug
func (h *ProjectHandler) EditProject(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req services.EditProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusUnprocessableEntity, err, "Invalid request body")
		return
	}

	project, err := h.projectService.EditProject(c.Request.Context(), actor, c.Param("slug"), req)
	if err != nil {
		h.fail(c, err, "Failed to edit project")
		return
	}

	responses.Success(c, http.StatusOK, project, "Project updated successfully")
}

// DeleteProject handles DELETE /api/v1/projects/:slug
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), actor, c.Param("slug")); err != nil {
		h.fail(c, err, "Failed to delete project")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Project deleted successfully")
}

// PostUpdate handles POST /api/v1/projects/:slug/updates
func (h *ProjectHandler) PostUpdate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req services.PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusUnprocessableEntity, err, "Invalid request body")
		return
	}

	update, err := h.projectService.PostUpdate(c.Request.Context(), actor, c.Param("slug"), req)
	if err != nil {
		h.fail(c, err, "Failed to post update")
		return
	}

	responses.Success(c, http.StatusCreated, update, "Update posted successfully")
}

// ScheduleMeeting handles POST /api/v1/projects/:slug/meeting
func (h *ProjectHandler) ScheduleMeeting(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}

	slot, err := h.projectService.ScheduleMeeting(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err, "Failed to schedule meeting")
		return
	}

	responses.Success(c, http.StatusOK, slot, "Meeting scheduled successfully")
}

// RemoveMember handles DELETE /api/v1/projects/:slug/members/:username
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	err := h.projectService.RemoveMember(c.Request.Context(), actor, c.Param("slug"), c.Param("username"))
	if err != nil {
		h.fail(c, err, "Failed to remove member")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Member removed successfully")
}

// actor loads the authenticated user. It writes the error response itself
// and reports false when the request cannot continue.
func (h *ProjectHandler) actor(c *gin.Context) (*models.User, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return nil, false
	}

	user, err := h.projectService.ResolveActor(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
			return nil, false
		}
		h.fail(c, err, "Failed to load user")
		return nil, false
	}
	return user, true
}

// fail maps service errors onto HTTP statuses.
func (h *ProjectHandler) fail(c *gin.Context, err error, message string) {
	var denied *services.DeniedError
	var invalid *services.ValidationError

	switch {
	case errors.As(err, &denied):
		responses.Fail(c, http.StatusForbidden, err, denied.Message)
	case errors.As(err, &invalid):
		responses.FailWithData(c, http.StatusUnprocessableEntity, err, invalid.Fields, "Invalid project data")
	case errors.Is(err, services.ErrValidationFailed):
		responses.Fail(c, http.StatusUnprocessableEntity, err, "Invalid project data")
	case errors.Is(err, services.ErrNotFound):
		responses.Fail(c, http.StatusNotFound, err, "Not found")
	case errors.Is(err, services.ErrNoAvailabilityFound):
		responses.Fail(c, http.StatusConflict, err, "No availability found")
	default:
		h.logger.Error(message, zap.Error(err), zap.String("path", c.FullPath()))
		_ = c.Error(err)
		responses.Fail(c, http.StatusInternalServerError, nil, message)
	}
}

func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middlewares.UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}
