package jwt

import (
	"time"

	"activity-marketplace/config"

	"github.com/golang-jwt/jwt"
)

// Claims 只携带身份，角色每次请求从 profile 读取
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.StandardClaims
}

func expire() time.Duration {
	return time.Duration(config.Get().JWT.AccessExpire) * time.Second
}

// CreateToken 签发 access token
func CreateToken(userID, sessionID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(expire()).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Get().JWT.AccessSecret))
}

// ParseToken 校验签名与过期时间
func ParseToken(tokenString string) (*Claims, bool) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, false
	}
	return claims, true
}

// Expire token 有效期，也用作会话 TTL
func Expire() time.Duration {
	return expire()
}
