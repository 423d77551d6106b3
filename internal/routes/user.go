package routes

import (
	"teamwork/internal/handlers"
	"teamwork/internal/middlewares"

	"github.com/gin-gonic/gin"
)

type UserRoutes struct {
	userHandler *handlers.UserHandler
	secret      []byte
}

func NewUserRoutes(userHandler *handlers.UserHandler, secret []byte) *UserRoutes {
	return &UserRoutes{
		userHandler: userHandler,
		secret:      secret,
	}
}

func (r *UserRoutes) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middlewares.Authenticate(r.secret))
	{
		users.GET("/me", r.userHandler.GetMe)
	}
}
