package domain

import "errors"

var (
	ErrInvalidStream   = errors.New("invalid stream")
	ErrDuplicateStream = errors.New("duplicate stream name")
)
