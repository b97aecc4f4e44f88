package middleware

import (
	"bytes"
	"log/slog"
	"strings"
	"time"

	"activity-marketplace/internal/global/logger"
	"activity-marketplace/internal/global/response"

	sentrylib "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// maxResponseLogSize 日志中记录的响应体上限（10KB）
const maxResponseLogSize = 10 * 1024

// bodyRecorder 只缓存 JSON 响应的前 maxResponseLogSize 字节，xlsx 等附件不缓存
type bodyRecorder struct {
	gin.ResponseWriter
	body      bytes.Buffer
	truncated bool
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		remaining := maxResponseLogSize - w.body.Len()
		switch {
		case remaining <= 0:
			w.truncated = true
		case len(b) > remaining:
			w.body.Write(b[:remaining])
			w.truncated = true
		default:
			w.body.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) String() string {
	if w.truncated {
		return w.body.String() + "...(truncated)"
	}
	return w.body.String()
}

// Logger 访问日志，按业务错误码决定级别：5xx 为 Error，其余失败为 Warn
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"response_body", rec.String(),
		}
		if uid := c.GetString("user_id"); uid != "" {
			attrs = append(attrs, "user_id", uid)
		}

		l := logger.WithContext(log, c)
		level := slog.LevelInfo
		if v, ok := c.Get(response.ErrorContextKey); ok {
			if e, ok := v.(*response.Error); ok {
				attrs = append(attrs, "code", e.Code)
				level = slog.LevelWarn
				if e.IsServerError() {
					level = slog.LevelError
				}
			}
		}
		l.Log(c, level, "HTTP Request", attrs...)
	}
}

// SentryEnrichIP 把客户端 IP 写入 Sentry Scope，需放在 sentry 中间件之后
func SentryEnrichIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.ConfigureScope(func(scope *sentrylib.Scope) {
				ip := c.ClientIP()
				scope.SetUser(sentrylib.User{IPAddress: ip})
				scope.SetTag("client_ip", ip)
				for _, h := range logger.ForwardedHeaders {
					if v := c.GetHeader(h[0]); v != "" {
						scope.SetTag(h[1], v)
					}
				}
			})
		}
		c.Next()
	}
}
