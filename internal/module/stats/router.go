package stats

import (
	"activity-marketplace/internal/global/middleware"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
)

func (*ModuleStats) InitRouter(r *gin.RouterGroup) {
	statsGroup := r.Group("/stats", middleware.Auth(model.RoleUser))
	{
		statsGroup.GET("/host", HostBrief)
		statsGroup.GET("/host/export", HostExport)
		statsGroup.GET("/activity/:id/brief", ActivityBrief)
	}
}
