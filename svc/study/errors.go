package study

import "errors"

var (
	ErrNotFound  = errors.New("study: record not found")
	ErrInvalidID = errors.New("study: invalid record id")
)
