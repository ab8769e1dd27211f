package intercept

import "errors"

var (
	// Construction errors
	ErrNilTarget      = errors.New("target is nil")
	ErrNotInterface   = errors.New("contract is not an interface type")
	ErrTargetMismatch = errors.New("target does not implement contract")

	// Registry errors
	ErrMarkerNotComparable = errors.New("marker type is not comparable")

	// Reflective dispatch errors
	ErrUnknownMethod = errors.New("no such method on target")
	ErrInvalidArgs   = errors.New("arguments do not match method parameters")
)
