package httpclient

import (
	"time"

	"activity-marketplace/internal/global/sentry/tracing"

	"github.com/go-resty/resty/v2"
)

// Client 出站请求共用的客户端（地理编码等）
var Client *resty.Client

func Init() {
	Client = New(10 * time.Second)
}

// New 创建带 Sentry 追踪的客户端
func New(timeout time.Duration) *resty.Client {
	c := resty.New().SetTimeout(timeout)
	if tracing.IsEnabled() {
		tracing.SetupRestyTracing(c)
	}
	return c
}
