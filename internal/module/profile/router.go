package profile

import (
	"activity-marketplace/internal/global/middleware"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModuleProfile) InitRouter(r *gin.RouterGroup) {
	profileGroup := r.Group("/profile")

	profileGroup.Use(middleware.Auth(model.RoleUser))
	{
		profileGroup.GET("/me", GetMine)
		profileGroup.PUT("/me", UpdateMine)
		profileGroup.PUT("/me/bank-account", UpdateBankAccount)
		profileGroup.POST("/me/avatar", UploadAvatar)
		profileGroup.GET("/roles/:id", GetRoles)
	}

	adminGroup := r.Group("/profile", middleware.Auth(model.RoleAdmin))
	{
		adminGroup.GET("/lookup", Lookup)
		adminGroup.PUT("/:id/admin", SetAdmin)
	}
}
