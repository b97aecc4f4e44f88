package response

import (
	"errors"
	"fmt"
	"net/http"

	"activity-marketplace/config"
	"activity-marketplace/internal/global/sentry"

	"github.com/gin-gonic/gin"
)

type ResponseBody struct {
	Code   int32  `json:"code"`
	Msg    string `json:"msg"`
	Origin string `json:"origin,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Success 统一成功响应，data 可省略
func Success(c *gin.Context, data ...any) {
	body := ResponseBody{
		Code: CodeSuccess,
		Msg:  "success",
	}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.JSON(http.StatusOK, body)
}

// Fail 统一失败响应，HTTP 状态码恒为 200，业务状态看 code
func Fail(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrServerInternal.WithOrigin(err)
	}

	c.Set(ErrorContextKey, e)
	if e.IsServerError() {
		sentry.CaptureException(c, e)
	}

	body := ResponseBody{
		Code: e.Code,
		Msg:  e.Message,
	}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}
	c.JSON(http.StatusOK, body)
}

// Recovery 捕获 handler 中的 panic，配合 middleware.Recovery 使用
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		var err error
		switch v := r.(type) {
		case error:
			err = v
		default:
			err = fmt.Errorf("%v", v)
		}
		Fail(c, ErrServerInternal.WithOrigin(err))
		c.Abort()
	}
}
