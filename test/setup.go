package test

import (
	"context"
	"testing"

	"activity-marketplace/config"
	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/pictureBed"
	"activity-marketplace/internal/global/session"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Config 测试用配置：sqlite 内存库，不连 Redis 与 Sentry
func Config(t *testing.T) *config.Config {
	return &config.Config{
		Mode:     config.ModeDebug,
		Prefix:   "api",
		Database: config.Database{Driver: "sqlite", DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"},
		JWT:      config.JWT{AccessSecret: "test-secret", AccessExpire: 3600},
		Upload:   config.Upload{LocalDir: t.TempDir(), BaseURL: "/api/static", MaxSize: 1 << 20},
	}
}

// Setup 为每个测试准备独立的数据库与会话存储
func Setup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := Config(t)
	config.Set(c)

	db, err := database.Open(c.Database, config.ModeRelease)
	require.NoError(t, err)
	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	session.SetDefault(session.NewMemoryStore())
	pictureBed.SetDefault(pictureBed.New(c))
}

// User 创建账号、资料与会话，返回可直接使用的 token
func User(t *testing.T, email string, roleID int) (model.Profile, string) {
	profile := model.Profile{
		Email:        email,
		FirstName:    "Test",
		IsAdmin:      roleID >= model.RoleAdmin,
		IsSuperAdmin: roleID >= model.RoleSuperAdmin,
	}
	require.NoError(t, database.DB.Create(&profile).Error)
	require.NoError(t, database.DB.Create(&model.Account{
		Model: model.Model{ID: profile.ID},
		Email: email,
	}).Error)

	sessionID, err := session.Default().Create(context.Background(), profile.ID, jwt.Expire())
	require.NoError(t, err)
	token, err := jwt.CreateToken(profile.ID, sessionID)
	require.NoError(t, err)
	return profile, token
}
