package profile

import (
	"strings"

	"activity-marketplace/config"
	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/pictureBed"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UpdateReq 使用指针类型支持部分更新，空字符串表示清空
type UpdateReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

type BankAccountReq struct {
	BankAccount *string `json:"bank_account" binding:"required"`
}

type SetAdminReq struct {
	IsAdmin *bool `json:"is_admin" binding:"required"`
}

// Roles 角色标志位
type Roles struct {
	IsAdmin      bool `json:"is_admin"`
	IsSuperAdmin bool `json:"is_super_admin"`
}

type LookupResult struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func find(c *gin.Context, id string) (*model.Profile, bool) {
	var profile model.Profile
	err := database.DB.Where("id = ?", id).Take(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("用户资料不存在"))
		return nil, false
	case err != nil:
		log.Error("查询用户资料失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return nil, false
	}
	return &profile, true
}

// update 按 id 更新并返回最新的 profile
func update(c *gin.Context, id string, updates map[string]any) {
	if len(updates) > 0 {
		if err := database.DB.Model(&model.Profile{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			log.Error("更新用户资料失败", "error", err, "id", id)
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
	}
	if profile, ok := find(c, id); ok {
		response.Success(c, profile)
	}
}

// GetMine 当前用户的资料
func GetMine(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	if profile, ok := find(c, payload.UserID); ok {
		response.Success(c, profile)
	}
}

func UpdateMine(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	var req UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新资料请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	updates := make(map[string]any)
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	update(c, payload.UserID, updates)
}

// UpdateBankAccount 不校验格式，直接覆盖
func UpdateBankAccount(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	var req BankAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定银行账户请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	update(c, payload.UserID, map[string]any{"bank_account": *req.BankAccount})
}

// UploadAvatar 上传头像并写入 avatar_url
func UploadAvatar(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if limit := config.Get().Upload.MaxSize; limit > 0 && fileHeader.Size > limit {
		response.Fail(c, response.ErrInvalidRequest.WithTips("文件过大"))
		return
	}

	url, err := pictureBed.Default().SaveImage(c, pictureBed.KindAvatar, fileHeader)
	if err != nil {
		log.Error("上传头像失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrStorage.WithOrigin(err))
		return
	}
	update(c, payload.UserID, map[string]any{"avatar_url": url})
}

// GetRoles 按用户 id 查询角色，没有 profile 时返回 404
func GetRoles(c *gin.Context) {
	if profile, ok := find(c, c.Param("id")); ok {
		response.Success(c, Roles{IsAdmin: profile.IsAdmin, IsSuperAdmin: profile.IsSuperAdmin})
	}
}

// Lookup 按邮箱查找用户 id
func Lookup(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("邮箱不能为空"))
		return
	}

	var profile model.Profile
	err := database.DB.Select("id", "email").Where("email = ?", email).Take(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
		return
	case err != nil:
		log.Error("按邮箱查询用户失败", "error", err, "email", email)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, LookupResult{ID: profile.ID, Email: profile.Email})
}

// SetAdmin 设置管理员标志位
func SetAdmin(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	id := c.Param("id")

	var req SetAdminReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定设置管理员请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	result := database.DB.Model(&model.Profile{}).Where("id = ?", id).Update("is_admin", *req.IsAdmin)
	if result.Error != nil {
		log.Error("设置管理员失败", "error", result.Error, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
		return
	}

	log.Info("管理员标志已更新", "id", id, "is_admin", *req.IsAdmin, "operator", payload.UserID)
	if profile, ok := find(c, id); ok {
		response.Success(c, profile)
	}
}
