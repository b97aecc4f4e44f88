package forum

import (
	"strings"

	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/markdown"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type PostCreateReq struct {
	CategoryID string `json:"category_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

type PostUpdateReq struct {
	CategoryID *string `json:"category_id"`
	Title      *string `json:"title"`
	Content    *string `json:"content"`
}

type ReplyCreateReq struct {
	Content string `json:"content" binding:"required"`
}

type ListPostsReq struct {
	CategoryID  string `form:"category_id"`
	PinnedFirst bool   `form:"pinned_first"`
}

// PostDetail 帖子详情，正文同时返回渲染后的 HTML
type PostDetail struct {
	model.ForumPost
	CategoryName string             `json:"category_name"`
	ContentHTML  string             `json:"content_html"`
	Replies      []model.ForumReply `json:"replies"`
}

func findPost(c *gin.Context, db *gorm.DB, id string) (*model.ForumPost, bool) {
	var post model.ForumPost
	err := db.Where("id = ?", id).Take(&post).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("帖子不存在", "id", id)
		response.Fail(c, response.ErrNotFound.WithTips("帖子不存在"))
		return nil, false
	case err != nil:
		log.Error("查询帖子失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return nil, false
	}
	return &post, true
}

func categoryExists(c *gin.Context, id string) bool {
	var count int64
	if err := database.DB.Model(&model.ForumCategory{}).Where("id = ?", id).Count(&count).Error; err != nil {
		log.Error("查询分类失败", "error", err, "category_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return false
	}
	if count == 0 {
		response.Fail(c, response.ErrNotFound.WithTips("分类不存在"))
		return false
	}
	return true
}

func authorName(userID string) string {
	var profile model.Profile
	if err := database.DB.Where("id = ?", userID).Take(&profile).Error; err != nil {
		return ""
	}
	return profile.DisplayName()
}

// ListPosts 全部帖子，按创建时间倒序；pinned_first 时置顶帖在前
func ListPosts(c *gin.Context) {
	var req ListPostsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	query := database.DB.Model(&model.ForumPost{})
	if req.CategoryID != "" {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.PinnedFirst {
		query = query.Order("is_pinned DESC")
	}

	posts := make([]model.ForumPost, 0)
	if err := query.Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		log.Error("获取帖子列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, posts)
}

func GetPost(c *gin.Context) {
	post, ok := findPost(c, database.DB.Preload("Category"), c.Param("id"))
	if !ok {
		return
	}

	html, err := markdown.Render(post.Content)
	if err != nil {
		log.Error("渲染帖子正文失败", "error", err, "id", post.ID)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}

	replies := make([]model.ForumReply, 0)
	if err := database.DB.Where("post_id = ?", post.ID).Order("created_at ASC").Find(&replies).Error; err != nil {
		log.Error("获取回复失败", "error", err, "id", post.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, PostDetail{
		ForumPost:    *post,
		CategoryName: post.Category.Name,
		ContentHTML:  html,
		Replies:      replies,
	})
}

func CreatePost(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	var req PostCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定发帖请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if !categoryExists(c, req.CategoryID) {
		return
	}

	post := model.ForumPost{
		CategoryID: req.CategoryID,
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		AuthorID:   payload.UserID,
		AuthorName: authorName(payload.UserID),
	}
	if err := database.DB.Create(&post).Error; err != nil {
		log.Error("发帖失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("发帖成功", "id", post.ID, "author_id", payload.UserID)
	response.Success(c, post)
}

// UpdatePost 仅作者可编辑，锁定后不可编辑
func UpdatePost(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	var req PostUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定编辑帖子请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	post, ok := findPost(c, database.DB, c.Param("id"))
	if !ok {
		return
	}
	if post.AuthorID != payload.UserID {
		log.Warn("无权限编辑帖子", "id", post.ID, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("只能编辑自己的帖子"))
		return
	}
	if post.IsLocked {
		response.Fail(c, response.ErrConflict.WithTips("帖子已锁定"))
		return
	}

	if req.CategoryID != nil {
		if !categoryExists(c, *req.CategoryID) {
			return
		}
		post.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}

	if err := database.DB.Save(post).Error; err != nil {
		log.Error("编辑帖子失败", "error", err, "id", post.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, post)
}

// CreateReply 回复帖子，回复数在同一事务内自增
func CreateReply(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	id := c.Param("id")

	var req ReplyCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定回复请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	post, ok := findPost(c, database.DB, id)
	if !ok {
		return
	}
	if post.IsLocked {
		response.Fail(c, response.ErrConflict.WithTips("帖子已锁定，无法回复"))
		return
	}

	reply := model.ForumReply{
		PostID:     post.ID,
		AuthorID:   payload.UserID,
		AuthorName: authorName(payload.UserID),
		Content:    req.Content,
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		return tx.Model(&model.ForumPost{}).Where("id = ?", post.ID).
			UpdateColumn("reply_count", gorm.Expr("reply_count + ?", 1)).Error
	})
	if err != nil {
		log.Error("回复失败", "error", err, "post_id", post.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, reply)
}
