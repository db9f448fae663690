package asset

import "errors"

var ErrUnknownState = errors.New("unknown download state")
