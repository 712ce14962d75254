package util

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindStorage
	// KindUpstream 尽力而为的副作用失败，只记录日志，不返回给调用方
	KindUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// HTTPStatus 错误类别对应的 HTTP 状态码
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrNotFound) 之类按类别匹配
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

func newError(kind ErrorKind, msg string, err error) *AppError {
	return &AppError{Kind: kind, Message: msg, Err: err}
}

func ValidationError(msg string) error          { return newError(KindValidation, msg, nil) }
func AuthError(msg string) error                { return newError(KindAuth, msg, nil) }
func ForbiddenError(msg string) error           { return newError(KindForbidden, msg, nil) }
func NotFoundError(msg string) error            { return newError(KindNotFound, msg, nil) }
func ConflictError(msg string) error            { return newError(KindConflict, msg, nil) }
func StorageError(msg string, err error) error  { return newError(KindStorage, msg, err) }
func UpstreamError(msg string, err error) error { return newError(KindUpstream, msg, err) }
func InternalError(msg string, err error) error { return newError(KindInternal, msg, err) }

// 类别哨兵，用于 errors.Is
var (
	ErrValidation = &AppError{Kind: KindValidation}
	ErrAuth       = &AppError{Kind: KindAuth}
	ErrForbidden  = &AppError{Kind: KindForbidden}
	ErrNotFound   = &AppError{Kind: KindNotFound}
	ErrConflict   = &AppError{Kind: KindConflict}
	ErrStorage    = &AppError{Kind: KindStorage}
	ErrUpstream   = &AppError{Kind: KindUpstream}
)

var (
	ErrEmailRegistered    = ConflictError("email already registered")
	ErrInvalidCredentials = AuthError("incorrect email or password")
	ErrInactiveUser       = AuthError("inactive user")
	ErrTokenInvalid       = AuthError("invalid or expired token")
	ErrTokenRevoked       = AuthError("token revoked")
	ErrPasswordRequired   = ValidationError("password is required")
	ErrPasswordTooLong    = ValidationError("password too long")
	ErrAssignmentNotFound = NotFoundError("assignment not found")
	ErrSubmissionNotFound = NotFoundError("submission not found for this assignment")
	ErrUserNotFound       = NotFoundError("user not found")
	ErrInsufficientRole   = ForbiddenError("insufficient role")
)

// KindOf 返回错误链上第一个 AppError 的类别，未知错误视为内部错误
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
