package forum

import (
	"activity-marketplace/internal/global/middleware"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModuleForum) InitRouter(r *gin.RouterGroup) {
	forumGroup := r.Group("/forum")
	{
		forumGroup.GET("/categories", ListCategories)
		forumGroup.GET("/posts", ListPosts)
		forumGroup.GET("/posts/:id", GetPost)
	}

	userGroup := r.Group("/forum", middleware.Auth(model.RoleUser))
	{
		userGroup.POST("/posts", CreatePost)
		userGroup.PUT("/posts/:id", UpdatePost)
		userGroup.POST("/posts/:id/replies", CreateReply)
	}

	// 管理员审核
	adminGroup := r.Group("/forum/admin", middleware.Auth(model.RoleAdmin))
	{
		adminGroup.PUT("/posts/:id/lock", SetLocked)
		adminGroup.PUT("/posts/:id/pin", SetPinned)
		adminGroup.DELETE("/posts/:id", DeletePost)
		adminGroup.POST("/categories", CreateCategory)
	}
}
