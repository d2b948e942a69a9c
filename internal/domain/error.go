package domain

import "errors"

var (
	// ErrInvalidOverrideMode indicates that the requested mode is not one of auto/open/closed.
	ErrInvalidOverrideMode = errors.New("override mode must be one of auto, open, closed")

	// ErrInvalidSession indicates that a join request carried no session ID.
	ErrInvalidSession = errors.New("session id is required")
)
