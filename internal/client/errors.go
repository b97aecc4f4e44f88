package client

import (
	"errors"
	"fmt"
	"strings"
)

// 与服务端 response 包的错误码一致
const (
	CodeSuccess             int32 = 200
	CodeInvalidRequest      int32 = 400
	CodeTokenInvalid        int32 = 401
	CodeInvalidPassword     int32 = 402
	CodeUnauthorized        int32 = 403
	CodeNotFound            int32 = 404
	CodeAlreadyExists       int32 = 409
	CodeConflict            int32 = 410
	CodeInsufficientBalance int32 = 422
)

// APIError 服务端返回的业务错误
type APIError struct {
	Code int32
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Msg)
}

// IsCode 判断 err 链上是否有指定错误码的 APIError
func IsCode(err error, code int32) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// 本地校验失败，不会发出请求
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrMissingFields       = errors.New("missing required fields")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrNotConfirmed        = errors.New("action not confirmed")
	ErrNotSignedIn         = errors.New("not signed in")
	ErrNotAdmin            = errors.New("admin role required")
	ErrClosed              = errors.New("view closed")
	ErrUnknownPost         = errors.New("post not in list")
)

// MissingFieldsError 列出缺失的必填字段
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return ErrMissingFields.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingFields
}
