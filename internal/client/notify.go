package client

import (
	"errors"
	"log/slog"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// 校验失败的原因，界面据此显示具体提示
const (
	ReasonInvalidAmount       = "invalid_amount"
	ReasonInsufficientBalance = "insufficient_balance"
	ReasonMissingFields       = "missing_fields"
	ReasonPasswordMismatch    = "password_mismatch"
	ReasonTimeout             = "timeout"
)

// Notification 一次 toast 提示
type Notification struct {
	Level   Level
	Title   string
	Message string
	Reason  string
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// LogNotifier 把提示写到日志，命令行使用
type LogNotifier struct {
	Log *slog.Logger
}

func (l LogNotifier) Notify(n Notification) {
	attrs := []any{"title", n.Title, "message", n.Message}
	if n.Reason != "" {
		attrs = append(attrs, "reason", n.Reason)
	}
	if n.Level == LevelError {
		l.Log.Warn("notification", attrs...)
		return
	}
	l.Log.Info("notification", attrs...)
}

type discard struct{}

func (discard) Notify(Notification) {}

func orDiscard(n Notifier) Notifier {
	if n == nil {
		return discard{}
	}
	return n
}

func success(title string) Notification {
	return Notification{Level: LevelSuccess, Title: title}
}

func failure(title string, err error) Notification {
	n := Notification{Level: LevelError, Title: title, Message: err.Error()}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		n.Message = apiErr.Msg
	}
	return n
}

func invalid(title, reason string, err error) Notification {
	return Notification{Level: LevelError, Title: title, Message: err.Error(), Reason: reason}
}
