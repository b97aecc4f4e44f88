package middleware

import (
	"errors"
	"strings"

	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/global/session"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Auth 校验 token 与会话，角色取自 profile，低于 minRoleID 拒绝访问
func Auth(minRoleID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		payload, valid := jwt.ParseToken(token)
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}

		// 退出登录后会话被删除，旧 token 失效
		active, err := session.Default().Active(c, payload.SessionID, payload.UserID)
		if err != nil {
			response.Fail(c, response.ErrServerInternal.WithOrigin(err))
			c.Abort()
			return
		}
		if !active {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}

		roleID := model.RoleUser
		var profile model.Profile
		err = database.DB.Select("is_admin", "is_super_admin").Where("id = ?", payload.UserID).Take(&profile).Error
		switch {
		case err == nil:
			roleID = profile.RoleID()
		case errors.Is(err, gorm.ErrRecordNotFound):
			// profile 尚未创建，按普通用户处理
		default:
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			c.Abort()
			return
		}

		if roleID < minRoleID {
			response.Fail(c, response.ErrUnauthorized)
			c.Abort()
			return
		}
		jwt.SetUserPayload(c, payload, roleID)
		c.Next()
	}
}
