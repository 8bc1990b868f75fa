package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("conflict")
)

const (
	CodeValidation     = "validation_error"
	CodeWeakPassword   = "weak_password"
	CodeDuplicateField = "duplicate_field"
)

// 供 errors.Is 使用，按 Code 匹配任意 *ValidationError
var (
	ErrValidation     = &ValidationError{Code: CodeValidation}
	ErrWeakPassword   = &ValidationError{Code: CodeWeakPassword}
	ErrDuplicateField = &ValidationError{Code: CodeDuplicateField}
)

// ValidationError 字段级错误，key 为 JSON 字段名
type ValidationError struct {
	Code   string
	Fields map[string][]string
}

func NewValidationError(code string) *ValidationError {
	return &ValidationError{Code: code, Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

// OrNil 没有任何字段错误时返回 nil
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Code
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return e.Code + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && (t.Code == "" || t.Code == e.Code)
}
