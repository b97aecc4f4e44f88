package cmd

import (
	"strings"

	"activity-marketplace/config"
	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/logger"
	"activity-marketplace/internal/model"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "创建或更新数据表",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)
		logger.New("Migrate").Info("数据表已同步", "driver", config.Get().Database.Driver)
		return nil
	},
}

var grantSuper bool

// grantAdminCmd 第一个管理员只能直接写库授予，之后可在管理后台操作
var grantAdminCmd = &cobra.Command{
	Use:   "grant-admin <email>",
	Short: "授予用户管理员角色",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		email := strings.ToLower(strings.TrimSpace(args[0]))
		updates := map[string]any{"is_admin": true}
		if grantSuper {
			updates["is_super_admin"] = true
		}
		result := db.Model(&model.Profile{}).Where("email = ?", email).Updates(updates)
		if result.Error != nil {
			return errors.Wrap(result.Error, "更新用户角色失败")
		}
		if result.RowsAffected == 0 {
			return errors.Errorf("用户 %s 不存在", email)
		}
		logger.New("Admin").Info("已授予管理员", "email", email, "super", grantSuper)
		return nil
	},
}

func init() {
	grantAdminCmd.Flags().BoolVar(&grantSuper, "super", false, "同时授予超级管理员")
}

// openDB 打开数据库并自动迁移
func openDB() (*gorm.DB, error) {
	c := config.Get()
	db, err := database.Open(c.Database, c.Mode)
	if err != nil {
		return nil, errors.Wrap(err, "连接数据库失败")
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
