package media

import "errors"

var ErrInvalidLocator = errors.New("invalid media locator")
