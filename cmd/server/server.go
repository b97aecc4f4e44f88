package server

import (
	"fmt"
	"log/slog"
	"time"

	"activity-marketplace/config"
	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/httpclient"
	"activity-marketplace/internal/global/logger"
	"activity-marketplace/internal/global/middleware"
	"activity-marketplace/internal/global/pictureBed"
	"activity-marketplace/internal/global/redis"
	"activity-marketplace/internal/global/sentry"
	"activity-marketplace/internal/global/session"
	"activity-marketplace/internal/module"
	"activity-marketplace/tools"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

// Init 初始化基础设施与各模块，配置需已加载
func Init() {
	log = logger.New("Server")

	if err := sentry.Init(); err != nil {
		log.Error("Sentry 初始化失败", "error", err)
	}

	database.Init()

	if err := redis.Init(); err != nil {
		// Redis 不可用时会话退回到内存
		log.Error("Redis 连接失败", "error", err)
	}
	session.Init(redis.Client)

	httpclient.Init()
	pictureBed.Init()

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

// NewRouter 组装中间件与所有模块的路由
func NewRouter() *gin.Engine {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(sentry.Middleware())
	r.Use(middleware.SentryEnrichIP())
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())

	for _, m := range module.Modules {
		if log != nil {
			log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		}
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}
	return r
}

func Run() {
	defer sentry.Flush(2 * time.Second)
	defer redis.Close()

	r := NewRouter()
	log.Info("Server started", "addr", config.Get().Host+":"+config.Get().Port)
	err := r.Run(config.Get().Host + ":" + config.Get().Port)
	tools.PanicOnErr(err)
}
