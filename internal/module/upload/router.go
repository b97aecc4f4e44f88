package upload

import (
	"strings"

	"activity-marketplace/config"
	"activity-marketplace/internal/global/middleware"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModuleUpload) InitRouter(r *gin.RouterGroup) {
	uploadGroup := r.Group("/upload", middleware.Auth(model.RoleUser))
	{
		uploadGroup.POST("/image", UploadImage)
		uploadGroup.POST("/presign", Presign)
	}

	// 未配置对象存储时由本服务提供本地文件，base_url 需位于路由前缀下
	if c := config.Get(); c.S3.Bucket == "" && c.Upload.LocalDir != "" &&
		strings.HasPrefix(c.Upload.BaseURL, r.BasePath()+"/") {
		r.Static(strings.TrimPrefix(c.Upload.BaseURL, r.BasePath()), c.Upload.LocalDir)
	}
}
