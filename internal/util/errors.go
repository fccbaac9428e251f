package util

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidFile = errors.New("invalid file")
)
