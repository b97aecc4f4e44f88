package schedule

import (
	"activity-marketplace/internal/global/middleware"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModuleSchedule) InitRouter(r *gin.RouterGroup) {
	scheduleGroup := r.Group("/schedule")
	{
		scheduleGroup.GET("/list", ListSchedules)
	}

	scheduleGroup.Use(middleware.Auth(model.RoleUser))
	{
		scheduleGroup.POST("/create", CreateSchedule)
	}
}
