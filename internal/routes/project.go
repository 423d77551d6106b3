package routes

import (
	"teamwork/internal/handlers"
	"teamwork/internal/middlewares"

	"github.com/gin-gonic/gin"
)

type ProjectRoutes struct {
	handler *handlers.ProjectHandler
	secret  []byte
}

func NewProjectRoutes(handler *handlers.ProjectHandler, secret []byte) *ProjectRoutes {
	return &ProjectRoutes{handler: handler, secret: secret}
}

func (r *ProjectRoutes) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	projects.Use(middlewares.Authenticate(r.secret)) // All project routes require authentication
	{
		projects.POST("", r.handler.CreateProject)
		projects.GET("", r.handler.ListProjects)
		projects.GET("/:slug", r.handler.GetProject)
		projects.PUT("/:slug", r.handler.EditProject)
		projects.DELETE("/:slug", r.handler.DeleteProject)
		projects.POST("/:slug/updates", r.handler.PostUpdate)
		projects.POST("/:slug/meeting", r.handler.ScheduleMeeting)
		projects.DELETE("/:slug/members/:username", r.handler.RemoveMember)
	}
}
