package freshservice

import (
	"errors"
	"fmt"
)

// ErrorKind 拉取错误分类
type ErrorKind int

const (
	KindConfig   ErrorKind = iota + 1 // 配置缺失或非法，未发起任何网络请求
	KindAuth                          // 凭证被拒或权限不足，不重试
	KindNotFound                      // 实体/工单/子资源不存在
	KindUpstream                      // 其他非成功响应（5xx、响应体异常等）
)

// APIError 拉取过程的错误，携带操作、实体与上游状态码便于定位
type APIError struct {
	Kind       ErrorKind
	Op         string // 操作描述，如 "搜索工单"
	Entity     string // 实体标识，如 "ticket 123"
	StatusCode int    // 上游HTTP状态码，0表示未收到响应
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Op
	if e.Entity != "" {
		msg += " " + e.Entity
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": 上游状态码 %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.Err }

func newError(kind ErrorKind, op, entity string, status int, err error) *APIError {
	return &APIError{Kind: kind, Op: op, Entity: entity, StatusCode: status, Err: err}
}

func isKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsConfig 是否为配置错误
func IsConfig(err error) bool { return isKind(err, KindConfig) }

// IsAuth 是否为认证/权限错误
func IsAuth(err error) bool { return isKind(err, KindAuth) }

// IsNotFound 是否为资源不存在
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsUpstream 是否为上游异常
func IsUpstream(err error) bool { return isKind(err, KindUpstream) }
