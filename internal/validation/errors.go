package validation

import (
	"errors"
	"sort"
	"strings"
)

// NonFieldErrors 不属于某个字段的错误统一放在这个键下
const NonFieldErrors = "__all__"

// Errors 字段名 -> 错误信息列表
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Merge(other Errors) {
	for field, msgs := range other {
		for _, m := range msgs {
			e.Add(field, m)
		}
	}
}

func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// Error 表单校验失败。Conflict 表示唯一性冲突（用户名、邮箱）
type Error struct {
	Fields   Errors
	Conflict bool
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func FromErrors(errs Errors) error {
	if !errs.HasErrors() {
		return nil
	}
	return &Error{Fields: errs}
}

func NewFieldError(field, message string) *Error {
	return &Error{Fields: Errors{field: {message}}}
}

func NewNonFieldError(message string) *Error {
	return NewFieldError(NonFieldErrors, message)
}

func NewConflict(field, message string) *Error {
	return &Error{Fields: Errors{field: {message}}, Conflict: true}
}

// As 从错误链中取出 *Error
func As(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
