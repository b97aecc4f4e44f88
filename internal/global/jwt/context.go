package jwt

import (
	"github.com/gin-gonic/gin"
)

const (
	payloadKey = "payload"
	roleKey    = "role_id"
)

func SetUserPayload(c *gin.Context, payload *Claims, roleID int) {
	c.Set(payloadKey, payload)
	c.Set("user_id", payload.UserID)
	c.Set(roleKey, roleID)
}

func GetUserPayload(c *gin.Context) (userPayload *Claims, exist bool) {
	payload, _ := c.Get(payloadKey)
	userPayload, exist = payload.(*Claims)
	return
}

// GetRoleID Auth 中间件写入的角色，未登录为 0
func GetRoleID(c *gin.Context) int {
	return c.GetInt(roleKey)
}
