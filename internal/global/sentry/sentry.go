package sentry

import (
	"fmt"
	"time"

	"activity-marketplace/config"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// CodedError 带错误码的错误，只有 5xx 会上报
type CodedError interface {
	error
	GetCode() int32
}

func enabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// Init 初始化 Sentry，未配置 DSN 时跳过
func Init() error {
	cfg := config.Get()
	if !enabled() {
		return nil
	}

	tracesSampleRate := cfg.Sentry.SampleRate
	if tracesSampleRate <= 0 {
		tracesSampleRate = 1.0
	}
	environment := cfg.Sentry.Environment
	if environment == "" {
		environment = string(cfg.Mode)
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.Dsn,
		Environment:      environment,
		Release:          "activity-marketplace@1.0.0",
		SampleRate:       1.0,
		EnableTracing:    true,
		TracesSampleRate: tracesSampleRate,
		EnableLogs:       true,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	return nil
}

// Middleware 未启用时返回空中间件
func Middleware() gin.HandlerFunc {
	if !enabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return sentrygin.New(sentrygin.Options{
		Repanic:         true, // 交给 Recovery 中间件处理
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// CaptureException 上报服务端错误，业务错误（4xx）不上报
func CaptureException(c *gin.Context, err error) {
	if !enabled() || !shouldReport(err) {
		return
	}

	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(c.Request)
		scope.SetTag("path", c.Request.URL.Path)
		scope.SetTag("method", c.Request.Method)
		if uid := c.GetString("user_id"); uid != "" {
			scope.SetUser(sentry.User{ID: uid})
		}
		hub.CaptureException(err)
	})
}

func shouldReport(err error) bool {
	if e, ok := err.(CodedError); ok {
		return e.GetCode() >= 500 && e.GetCode() < 600
	}
	return true
}

// Flush 程序退出前调用
func Flush(timeout time.Duration) {
	if enabled() {
		sentry.Flush(timeout)
	}
}
