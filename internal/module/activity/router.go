package activity

import (
	"activity-marketplace/internal/global/middleware"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModuleActivity) InitRouter(r *gin.RouterGroup) {
	// 所有活动相关端点以 /activity 为前缀
	activityGroup := r.Group("/activity")
	{
		activityGroup.GET("/list", ListActivities)
		activityGroup.GET("/get/:id", GetActivity)
		activityGroup.GET("/:id/location", GetLocation)
	}

	activityGroup.Use(middleware.Auth(model.RoleUser))
	{
		activityGroup.GET("/mine/:id", GetMine)
		activityGroup.POST("/create", CreateActivity)
		activityGroup.PUT("/update/:id", UpdateActivity)
		activityGroup.GET("/:id/schedules/export", ExportSchedules)
	}
}
