package auth

import (
	"activity-marketplace/internal/global/middleware"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModuleAuth) InitRouter(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/sign-up", SignUp)
		authGroup.POST("/sign-in", SignIn)
	}

	authGroup.Use(middleware.Auth(model.RoleUser))
	{
		authGroup.GET("/session", Current)
		authGroup.POST("/sign-out", SignOut)
		authGroup.PUT("/credentials", UpdateCredentials)
	}
}
