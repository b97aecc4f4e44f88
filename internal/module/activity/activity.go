package activity

import (
	"strings"

	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ActivityCreateReq 创建活动，状态与创建人由服务端决定
type ActivityCreateReq struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Location    string          `json:"location" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	AgeRange    string          `json:"age_range" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	IsPremium   bool            `json:"is_premium"`
}

// ActivityUpdateReq 使用指针类型支持部分更新
type ActivityUpdateReq struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Location    *string          `json:"location"`
	Category    *string          `json:"category"`
	AgeRange    *string          `json:"age_range"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	IsPremium   *bool            `json:"is_premium"`
	Status      *string          `json:"status"`
}

type ListActivitiesReq struct {
	CreatorID string `form:"creator_id"`
	Category  string `form:"category"`
	Status    string `form:"status"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

type ListActivitiesResp struct {
	Activities []model.Activity `json:"activities"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

func validStatus(s string) bool {
	switch s {
	case model.ActivityStatusDraft, model.ActivityStatusPublished, model.ActivityStatusPending:
		return true
	}
	return false
}

// findActivity 查询活动，creatorID 非空时同时按创建人过滤，不属于调用者的活动视为不存在
func findActivity(c *gin.Context, id, creatorID string) (*model.Activity, bool) {
	query := database.DB.Where("id = ?", id)
	if creatorID != "" {
		query = query.Where("creator_id = ?", creatorID)
	}

	var activity model.Activity
	err := query.Take(&activity).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("活动不存在", "id", id, "creator_id", creatorID)
		response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
		return nil, false
	case err != nil:
		log.Error("查询活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return nil, false
	}
	return &activity, true
}

// CreateActivity 创建活动，状态固定为草稿
func CreateActivity(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	var req ActivityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建活动请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var creator model.Profile
	if err := database.DB.Where("id = ?", payload.UserID).Take(&creator).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("查询创建人失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	activity := model.Activity{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Location:    strings.TrimSpace(req.Location),
		Category:    req.Category,
		AgeRange:    req.AgeRange,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsPremium:   req.IsPremium,
		Status:      model.ActivityStatusDraft,
		CreatorID:   payload.UserID,
		CreatorName: creator.DisplayName(),
	}
	if err := database.DB.Create(&activity).Error; err != nil {
		log.Error("创建活动失败", "error", err, "title", req.Title)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("活动创建成功", "id", activity.ID, "creator_id", payload.UserID)
	response.Success(c, activity)
}

// ListActivities 按创建时间倒序分页
func ListActivities(c *gin.Context) {
	var req ListActivitiesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Error("绑定查询参数失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	query := database.DB.Model(&model.Activity{})
	if req.CreatorID != "" {
		query = query.Where("creator_id = ?", req.CreatorID)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("获取活动总数失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	activities := make([]model.Activity, 0, req.PageSize)
	offset := (req.Page - 1) * req.PageSize
	// id 作为第二排序键，保证同一时间创建的记录分页稳定
	if err := query.Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(req.PageSize).Find(&activities).Error; err != nil {
		log.Error("获取活动列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, ListActivitiesResp{
		Activities: activities,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
}

func GetActivity(c *gin.Context) {
	if activity, ok := findActivity(c, c.Param("id"), ""); ok {
		response.Success(c, activity)
	}
}

// GetMine 编辑页加载，只返回调用者自己的活动
func GetMine(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	if activity, ok := findActivity(c, c.Param("id"), payload.UserID); ok {
		response.Success(c, activity)
	}
}

// UpdateActivity 按 id 与创建人更新，返回更新后的记录
func UpdateActivity(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	id := c.Param("id")

	var req ActivityUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新活动请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if req.Status != nil && !validStatus(*req.Status) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动状态无效"))
		return
	}

	activity, ok := findActivity(c, id, payload.UserID)
	if !ok {
		return
	}

	if req.Title != nil {
		activity.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.Location != nil {
		activity.Location = strings.TrimSpace(*req.Location)
	}
	if req.Category != nil {
		activity.Category = *req.Category
	}
	if req.AgeRange != nil {
		activity.AgeRange = *req.AgeRange
	}
	if req.Price != nil {
		activity.Price = *req.Price
	}
	if req.ImageURL != nil {
		activity.ImageURL = *req.ImageURL
	}
	if req.IsPremium != nil {
		activity.IsPremium = *req.IsPremium
	}
	if req.Status != nil {
		activity.Status = *req.Status
	}

	if err := database.DB.Save(activity).Error; err != nil {
		log.Error("更新活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("活动更新成功", "id", activity.ID)
	response.Success(c, activity)
}
