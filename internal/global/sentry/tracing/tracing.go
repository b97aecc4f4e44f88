// Package tracing 为 GORM、Redis 和 Resty 提供 Sentry 性能追踪
package tracing

import (
	"context"

	"activity-marketplace/config"

	"github.com/getsentry/sentry-go"
)

// IsEnabled 是否配置了 Sentry
func IsEnabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// StartChild 在 ctx 中的 span 下创建子 span，没有父 span 时返回 nil
func StartChild(ctx context.Context, operation, description string) *sentry.Span {
	if ctx == nil {
		return nil
	}
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return nil
	}
	span := parent.StartChild(operation)
	span.Description = description
	return span
}

// finish 根据耗时阈值决定是否采样，并结束 span
func finish(span *sentry.Span, slow bool, err error) {
	if span == nil {
		return
	}
	if !slow {
		span.Sampled = sentry.SampledFalse
	}
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
