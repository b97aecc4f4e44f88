package tracing

import (
	"context"
	"net"
	"strings"
	"time"

	"activity-marketplace/config"

	"github.com/redis/go-redis/v9"
)

// RedisSentryHook 实现 redis.Hook，只上报超过阈值的慢命令
type RedisSentryHook struct {
	slowThreshold time.Duration
}

func NewRedisSentryHook() *RedisSentryHook {
	ms := config.Get().Sentry.Tracing.RedisSlowThresholdMs
	return &RedisSentryHook{slowThreshold: time.Duration(ms) * time.Millisecond}
}

func (h *RedisSentryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisSentryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		// 只记录命令名，参数里可能有会话 token
		span := StartChild(ctx, "db.redis", strings.ToUpper(cmd.Name()))
		if span != nil {
			span.SetData("db.system", "redis")
			ctx = span.Context()
		}

		err := next(ctx, cmd)
		if err == redis.Nil {
			finish(span, time.Since(start) >= h.slowThreshold, nil)
		} else {
			finish(span, time.Since(start) >= h.slowThreshold, err)
		}
		return err
	}
}

func (h *RedisSentryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		span := StartChild(ctx, "db.redis.pipeline", pipelineDescription(cmds))
		if span != nil {
			span.SetData("db.system", "redis")
			span.SetData("redis.pipeline_length", len(cmds))
			ctx = span.Context()
		}

		err := next(ctx, cmds)
		finish(span, time.Since(start) >= h.slowThreshold, err)
		return err
	}
}

func pipelineDescription(cmds []redis.Cmder) string {
	names := make([]string, 0, 3)
	for i, cmd := range cmds {
		if i == 3 {
			names = append(names, "...")
			break
		}
		names = append(names, strings.ToUpper(cmd.Name()))
	}
	return "PIPELINE " + strings.Join(names, " ")
}
