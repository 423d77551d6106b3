package routes

import (
	"net/http"

	"teamwork/internal/handlers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, secret []byte, userHandler *handlers.UserHandler, projectHandler *handlers.ProjectHandler) {
	api := router.Group("/api/v1")

	userRoutes := NewUserRoutes(userHandler, secret)
	userRoutes.RegisterRoutes(api)

	projectRoutes := NewProjectRoutes(projectHandler, secret)
	projectRoutes.RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
