package forum

import (
	"strings"

	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LockReq struct {
	IsLocked *bool `json:"is_locked" binding:"required"`
}

type PinReq struct {
	IsPinned *bool `json:"is_pinned" binding:"required"`
}

type CategoryCreateReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// setFlag 只修改单个字段，不更新 updated_at，返回修改后的帖子
// 先确认帖子存在：值未变化时 MySQL 的 RowsAffected 为 0，不能据此判断不存在
func setFlag(c *gin.Context, column string, value bool) {
	payload, _ := jwt.GetUserPayload(c)
	id := c.Param("id")

	post, ok := findPost(c, database.DB, id)
	if !ok {
		return
	}
	if err := database.DB.Model(&model.ForumPost{}).Where("id = ?", id).UpdateColumn(column, value).Error; err != nil {
		log.Error("更新帖子状态失败", "error", err, "id", id, "column", column)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("帖子状态已更新", "id", id, column, value, "operator", payload.UserID)
	if post, ok = findPost(c, database.DB, post.ID); ok {
		response.Success(c, post)
	}
}

func SetLocked(c *gin.Context) {
	var req LockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	setFlag(c, "is_locked", *req.IsLocked)
}

func SetPinned(c *gin.Context) {
	var req PinReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	setFlag(c, "is_pinned", *req.IsPinned)
}

// DeletePost 硬删除帖子及其回复
func DeletePost(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	id := c.Param("id")

	var deleted int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.ForumReply{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.ForumPost{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		log.Error("删除帖子失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if deleted == 0 {
		response.Fail(c, response.ErrNotFound.WithTips("帖子不存在"))
		return
	}

	log.Info("帖子已删除", "id", id, "operator", payload.UserID)
	response.Success(c)
}

func ListCategories(c *gin.Context) {
	categories := make([]model.ForumCategory, 0)
	if err := database.DB.Order("name ASC").Find(&categories).Error; err != nil {
		log.Error("获取分类失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, categories)
}

// CreateCategory 名称唯一性由数据库唯一索引保证
func CreateCategory(c *gin.Context) {
	var req CategoryCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	category := model.ForumCategory{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if category.Name == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("分类名称不能为空"))
		return
	}
	err := database.DB.Create(&category).Error
	if database.IsUniqueViolation(err) {
		response.Fail(c, response.ErrAlreadyExists.WithTips("分类已存在"))
		return
	}
	if err != nil {
		log.Error("创建分类失败", "error", err, "name", category.Name)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, category)
}
