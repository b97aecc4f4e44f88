package redis

import (
	"context"
	"net"
	"time"

	"activity-marketplace/config"
	"activity-marketplace/internal/global/sentry/tracing"

	goredis "github.com/redis/go-redis/v9"
)

// Client 未配置 Redis 时为 nil，调用方需回退到内存实现
var Client *goredis.Client

func Init() error {
	cfg := config.Get().Redis
	if cfg.Host == "" {
		return nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if tracing.IsEnabled() {
		client.AddHook(tracing.NewRedisSentryHook())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return err
	}
	Client = client
	return nil
}

func Close() {
	if Client != nil {
		_ = Client.Close()
	}
}
