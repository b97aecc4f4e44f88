package upload

import (
	"errors"

	"activity-marketplace/config"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/pictureBed"
	"activity-marketplace/internal/global/response"

	"github.com/gin-gonic/gin"
)

type PresignReq struct {
	Kind        string `json:"kind" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
}

type ImageResp struct {
	URL string `json:"url"`
}

// UploadImage 表单字段 file 与 kind（activity_images | avatars）
func UploadImage(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	kind := c.DefaultPostForm("kind", pictureBed.KindActivityImage)
	if !pictureBed.ValidKind(kind) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("不支持的上传类型"))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if limit := config.Get().Upload.MaxSize; limit > 0 && fileHeader.Size > limit {
		response.Fail(c, response.ErrInvalidRequest.WithTips("文件过大"))
		return
	}

	url, err := pictureBed.Default().SaveImage(c, kind, fileHeader)
	if err != nil {
		log.Error("上传图片失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrStorage.WithOrigin(err))
		return
	}
	log.Info("图片上传成功", "url", url, "user_id", payload.UserID)
	response.Success(c, ImageResp{URL: url})
}

// Presign 生成直传对象存储的预签名地址
func Presign(c *gin.Context) {
	var req PresignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if !pictureBed.ValidKind(req.Kind) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("不支持的上传类型"))
		return
	}

	resp, err := pictureBed.Default().GeneratePresignedUploadURL(c, pictureBed.PresignedUploadRequest{
		Kind:        req.Kind,
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if errors.Is(err, pictureBed.ErrNoBucket) {
		response.Fail(c, response.ErrStorage.WithTips("未配置对象存储"))
		return
	}
	if err != nil {
		log.Error("生成预签名地址失败", "error", err)
		response.Fail(c, response.ErrStorage.WithOrigin(err))
		return
	}
	response.Success(c, resp)
}
