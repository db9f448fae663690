package state

import "errors"

var (
	ErrEmptyName     = errors.New("empty asset name")
	ErrCorruptRecord = errors.New("corrupt download state record")
)
