package contentkey

import "errors"

var (
	ErrNoRegistrar         = errors.New("no content key registrar configured")
	ErrNilRecipient        = errors.New("nil content key recipient")
	ErrSessionClosed       = errors.New("content key session closed")
	ErrRegistrationPending = errors.New("content key registration pending")
)
