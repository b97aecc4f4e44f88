package balance

import (
	"activity-marketplace/internal/global/middleware"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModuleBalance) InitRouter(r *gin.RouterGroup) {
	balanceGroup := r.Group("/balance", middleware.Auth(model.RoleUser))
	{
		balanceGroup.GET("", GetBalance)
		balanceGroup.POST("/withdraw", Withdraw)
		balanceGroup.GET("/withdrawals", ListWithdrawals)
		balanceGroup.GET("/withdrawals/export", ExportWithdrawals)
	}

	// 管理员记录结算结果
	adminGroup := r.Group("/balance/admin", middleware.Auth(model.RoleAdmin))
	{
		adminGroup.GET("/pending", ListPending)
		adminGroup.POST("/review", Review)
	}
}
