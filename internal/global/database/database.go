package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"activity-marketplace/config"
	"activity-marketplace/internal/global/sentry/tracing"
	"activity-marketplace/internal/model"
	"activity-marketplace/tools"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// autoMigrateModels 定义需要自动迁移的模型列表
var autoMigrateModels = []any{
	&model.Account{},
	&model.Profile{},
	&model.Activity{},
	&model.Schedule{},
	&model.ForumCategory{},
	&model.ForumPost{},
	&model.ForumReply{},
	&model.HostBalance{},
	&model.WithdrawalRequest{},
}

// mysqlDSN 开启 clientFoundRows，RowsAffected 统计匹配行而不是实际变化的行
func mysqlDSN(c config.Database) (string, error) {
	if c.DSN != "" {
		cfg, err := mysqldriver.ParseDSN(c.DSN)
		if err != nil {
			return "", err
		}
		cfg.ClientFoundRows = true
		return cfg.FormatDSN(), nil
	}
	cfg := mysqldriver.NewConfig()
	cfg.User = c.Username
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host + ":" + c.Port
	cfg.DBName = c.DBName
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN(), nil
}

func dialector(c config.Database) (gorm.Dialector, error) {
	switch c.Driver {
	case "mysql":
		dsn, err := mysqlDSN(c)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := c.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				c.Host, c.Port, c.Username, c.Password, c.DBName)
		}
		return postgres.Open(dsn), nil
	case "sqlite", "":
		return sqlite.Open(c.DSN), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", c.Driver)
	}
}

// Open 按配置打开数据库并完成迁移，不修改全局 DB
func Open(c config.Database, mode config.Mode) (*gorm.DB, error) {
	d, err := dialector(c)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true}, // 还是单数表名好
	}
	switch mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	default:
		gormConfig.Logger = logger.Discard
	}

	db, err := gorm.Open(d, gormConfig)
	if err != nil {
		return nil, err
	}
	if c.Driver == "sqlite" || c.Driver == "" {
		// sqlite 只允许单写连接
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	if tracing.IsEnabled() {
		if err := db.Use(tracing.NewGormTracingPlugin()); err != nil {
			return nil, err
		}
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate 使用模型列表进行自动迁移
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(autoMigrateModels...)
}

func Init() {
	db, err := Open(config.Get().Database, config.Get().Mode)
	tools.PanicOnErr(err)
	DB = db
}

// IsUniqueViolation 判断是否违反唯一约束，兼容三种驱动
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
