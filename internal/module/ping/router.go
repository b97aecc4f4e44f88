package ping

import (
	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/redis"
	"activity-marketplace/internal/global/response"

	"github.com/gin-gonic/gin"
)

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		result := map[string]any{
			"message":  "pong",
			"version":  "1.0.0",
			"database": "ok",
		}
		if sqlDB, err := database.DB.DB(); err != nil || sqlDB.PingContext(c) != nil {
			log.Warn("数据库不可用", "error", err)
			result["database"] = "unavailable"
		}
		if redis.Client != nil {
			result["redis"] = "ok"
			if err := redis.Client.Ping(c).Err(); err != nil {
				log.Warn("Redis 不可用", "error", err)
				result["redis"] = "unavailable"
			}
		}
		response.Success(c, result)
	})
}
