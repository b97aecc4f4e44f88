package response

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrorContextKey 是用于在 gin.Context 中存储错误对象的键
const ErrorContextKey = "error"

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Error 业务错误：错误码 + 提示信息，可选携带原始错误与堆栈
type Error struct {
	Code    int32  `json:"code"`
	Message string `json:"msg"`
	Origin  string `json:"origin"`
	cause   error
	stack   pkgerrors.StackTrace
}

func newError(code int32, msg string) *Error {
	return &Error{
		Code:    code,
		Message: msg,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("code:%d, msg:%s", e.Code, e.Message)
}

// GetCode 实现 sentry.CodedError 接口
func (e *Error) GetCode() int32 {
	return e.Code
}

// IsServerError 5xx 视为服务端错误，需要上报
func (e *Error) IsServerError() bool {
	return e.Code >= 500 && e.Code < 600
}

func (e *Error) Unwrap() error {
	return e.cause
}

// StackTrace 供 Sentry 提取堆栈
func (e *Error) StackTrace() pkgerrors.StackTrace {
	if e.stack != nil {
		return e.stack
	}
	if st, ok := e.cause.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

// Is 错误码相同即视为同一错误
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithOrigin 附带原始错误，debug 模式下原样返回给前端
func (e *Error) WithOrigin(err error) *Error {
	if err == nil {
		return e
	}

	wrapped := err
	if _, ok := err.(stackTracer); !ok {
		wrapped = pkgerrors.WithStack(err)
	}

	newErr := &Error{
		Code:    e.Code,
		Message: e.Message,
		Origin:  fmt.Sprintf("%+v", wrapped),
		cause:   wrapped,
	}
	if st, ok := wrapped.(stackTracer); ok {
		newErr.stack = st.StackTrace()
	}
	return newErr
}

// WithTips 附加给用户看的提示，release 模式同样可见
func (e *Error) WithTips(details ...string) *Error {
	msg := e.Message
	if len(details) > 0 {
		msg += "：" + strings.Join(details, "，")
	}
	return &Error{
		Code:    e.Code,
		Message: msg,
		Origin:  e.Origin,
		cause:   e.cause,
		stack:   e.stack,
	}
}
