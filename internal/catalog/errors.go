package catalog

import "errors"

var (
	ErrNotFound       = errors.New("asset not found")
	ErrDuplicateAsset = errors.New("asset name already in use")
)
