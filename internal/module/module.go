package module

import (
	"activity-marketplace/internal/module/activity"
	"activity-marketplace/internal/module/auth"
	"activity-marketplace/internal/module/balance"
	"activity-marketplace/internal/module/forum"
	"activity-marketplace/internal/module/ping"
	"activity-marketplace/internal/module/profile"
	"activity-marketplace/internal/module/schedule"
	"activity-marketplace/internal/module/stats"
	"activity-marketplace/internal/module/upload"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&ping.ModulePing{},
		&auth.ModuleAuth{},
		&profile.ModuleProfile{},
		&activity.ModuleActivity{},
		&schedule.ModuleSchedule{},
		&forum.ModuleForum{},
		&balance.ModuleBalance{},
		&stats.ModuleStats{},
		&upload.ModuleUpload{},
	})
}
