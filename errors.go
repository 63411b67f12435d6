package relay

import "errors"

var (
	// ErrTargetExists is reported when registering a target whose name is
	// already taken. The existing target is left untouched.
	ErrTargetExists = errors.New("target already registered")

	// ErrTargetNotFound is reported by update, remove, and append
	// operations referencing an unknown target name.
	ErrTargetNotFound = errors.New("target not found")

	// ErrInvalidEnvelope is returned by HandleIncomingEvent when the body
	// is neither valid JSON text nor a supported structured value.
	ErrInvalidEnvelope = errors.New("invalid event envelope")
)
