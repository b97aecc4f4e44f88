package auth

import (
	"strings"
	"time"

	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/global/session"
	"activity-marketplace/internal/model"
	"activity-marketplace/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Identity 会话中的用户身份
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Identity  `json:"user"`
}

type SignUpReq struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type SignInReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CredentialsReq struct {
	Password string `json:"password" binding:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// issue 注册会话并签发 token
func issue(c *gin.Context, account *model.Account) (*Session, error) {
	sessionID, err := session.Default().Create(c, account.ID, jwt.Expire())
	if err != nil {
		return nil, response.ErrServerInternal.WithOrigin(err)
	}
	token, err := jwt.CreateToken(account.ID, sessionID)
	if err != nil {
		return nil, response.ErrServerInternal.WithOrigin(err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: time.Now().Add(jwt.Expire()),
		User:      Identity{ID: account.ID, Email: account.Email},
	}, nil
}

// SignUp 创建账号与同 ID 的 profile，并直接登录
func SignUp(c *gin.Context) {
	var req SignUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定注册请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	email := normalizeEmail(req.Email)

	account := model.Account{
		Email:        email,
		PasswordHash: tools.PasswordEncrypt(req.Password),
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		return tx.Create(&model.Profile{
			Model:     model.Model{ID: account.ID},
			Email:     email,
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
		}).Error
	})
	if database.IsUniqueViolation(err) {
		log.Warn("邮箱已注册", "email", email)
		response.Fail(c, response.ErrAlreadyExists.WithTips("邮箱已注册"))
		return
	}
	if err != nil {
		log.Error("创建账号失败", "error", err, "email", email)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	s, err := issue(c, &account)
	if err != nil {
		response.Fail(c, err)
		return
	}
	log.Info("用户注册成功", "user_id", account.ID)
	response.Success(c, s)
}

// SignIn 邮箱密码登录，账号不存在与密码错误返回同一错误
func SignIn(c *gin.Context) {
	var req SignInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	email := normalizeEmail(req.Email)

	var account model.Account
	err := database.DB.Where("email = ?", email).Take(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("账号不存在", "email", email)
		response.Fail(c, response.ErrInvalidPassword)
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "email", email)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(req.Password, account.PasswordHash) {
		log.Warn("密码错误", "email", email)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	s, err := issue(c, &account)
	if err != nil {
		response.Fail(c, err)
		return
	}
	log.Info("用户登录成功", "user_id", account.ID)
	response.Success(c, s)
}

// Current 返回当前会话的身份
func Current(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	var account model.Account
	err := database.DB.Where("id = ?", payload.UserID).Take(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrTokenInvalid)
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, Identity{ID: account.ID, Email: account.Email})
}

// SignOut 删除会话，之后该 token 不再可用
func SignOut(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	if err := session.Default().Revoke(c, payload.SessionID); err != nil {
		log.Error("注销会话失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	log.Info("用户退出登录", "user_id", payload.UserID)
	response.Success(c)
}

// UpdateCredentials 修改密码
func UpdateCredentials(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	var req CredentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定修改密码请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	result := database.DB.Model(&model.Account{}).
		Where("id = ?", payload.UserID).
		Update("password_hash", tools.PasswordEncrypt(req.Password))
	if result.Error != nil {
		log.Error("修改密码失败", "error", result.Error, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		response.Fail(c, response.ErrNotFound)
		return
	}
	log.Info("密码修改成功", "user_id", payload.UserID)
	response.Success(c)
}
