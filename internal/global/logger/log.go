package logger

import (
	"activity-marketplace/config"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	sentryslog "github.com/getsentry/sentry-go/slog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// AppName 日志与 Sentry 中的服务名
const AppName = "activity-marketplace"

var (
	instance *slog.Logger
	once     sync.Once
)

// fanout 把同一条记录分发给多个 handler，单个失败不影响其余
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}

// parseLevel 不认识的级别按 info 处理
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// newHandler release 且配置了文件路径时写 JSON 文件并轮转，否则输出文本到 w
func newHandler(c *config.Config, w io.Writer) slog.Handler {
	release := c.Mode == config.ModeRelease
	opts := &slog.HandlerOptions{
		AddSource: release,
		Level:     parseLevel(c.Log.Level),
	}

	var base slog.Handler
	if release && c.Log.FilePath != "" {
		base = slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   c.Log.FilePath,
			MaxSize:    c.Log.MaxSize,
			MaxBackups: c.Log.MaxBackups,
			MaxAge:     c.Log.MaxAge,
			Compress:   c.Log.Compress,
		}, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}

	if c.Sentry.Dsn == "" {
		return base
	}
	// Error 作为 Sentry Event，Warn 及以上作为 Sentry Log
	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
		AddSource:  release,
	}.NewSentryHandler(context.Background())
	return fanout{base, sentryHandler}
}

// Get 全局 Logger，首次调用时按配置构建
func Get() *slog.Logger {
	once.Do(func() {
		c := config.Get()
		instance = slog.New(newHandler(c, os.Stdout)).With(
			"app_name", AppName,
			"env", string(c.Mode),
		)
	})
	return instance
}

// New 带模块字段的 Logger
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

// Discard 丢弃所有输出，测试和 CLI 静默模式使用
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type requestInfo interface {
	ClientIP() string
	GetHeader(string) string
}

// ForwardedHeaders 代理转发头与日志字段名
var ForwardedHeaders = [][2]string{
	{"X-Forwarded-For", "x_forwarded_for"},
	{"X-Real-IP", "x_real_ip"},
}

// WithContext 附加客户端 IP，经过代理时一并记录转发头
func WithContext(base *slog.Logger, c requestInfo) *slog.Logger {
	l := base.With("client_ip", c.ClientIP())
	for _, h := range ForwardedHeaders {
		if v := c.GetHeader(h[0]); v != "" {
			l = l.With(h[1], v)
		}
	}
	return l
}
