// Package apperr defines the error taxonomy shared by the services and the
// HTTP layer. Errors are samber/oops errors carrying one of the codes below;
// the HTTP layer maps codes to status codes and never leaks uncoded errors.
package apperr

import (
	"log/slog"

	"github.com/samber/oops"
)

const (
	CodeConflict       = "CONFLICT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotFound       = "NOT_FOUND"
	CodeValidation     = "VALIDATION"
	CodeConfiguration  = "CONFIGURATION"
	CodeExternalLookup = "EXTERNAL_LOOKUP"
)

// Conflict 唯一性冲突
func Conflict(msg string) error {
	return oops.Code(CodeConflict).Errorf("%s", msg)
}

// Unauthorized 凭证错误
func Unauthorized(msg string) error {
	return oops.Code(CodeUnauthorized).Errorf("%s", msg)
}

// NotFound 资源不存在
func NotFound(msg string) error {
	return oops.Code(CodeNotFound).Errorf("%s", msg)
}

// Validation 输入不合法
func Validation(msg string) error {
	return oops.Code(CodeValidation).Errorf("%s", msg)
}

// Configuration 配置缺失，应在启动阶段终止进程
func Configuration(format string, args ...any) error {
	return oops.Code(CodeConfiguration).Errorf(format, args...)
}

// ExternalLookup 包装外部目录查询失败
func ExternalLookup(err error, format string, args ...any) error {
	return oops.Code(CodeExternalLookup).Wrapf(err, format, args...)
}

// Code returns the oops code carried by err, or "" for uncoded errors.
func Code(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	if code, ok := oopsErr.Code().(string); ok {
		return code
	}
	return ""
}

// Is 判断 err 是否携带指定错误码
func Is(err error, code string) bool {
	return err != nil && Code(err) == code
}

// IsDomain reports whether err is an expected outcome that may be shown to
// the caller verbatim.
func IsDomain(err error) bool {
	switch Code(err) {
	case CodeConflict, CodeUnauthorized, CodeNotFound, CodeValidation:
		return true
	}
	return false
}

// LogError logs an error with structured context if it's an oops error.
func LogError(logger *slog.Logger, msg string, err error, args ...any) {
	attrs := append([]any{"error", err.Error()}, args...)
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := Code(err); code != "" {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
	}
	logger.Error(msg, attrs...)
}
