package effects

import "errors"

var (
	ErrUnknownEasing    = errors.New("effects: unknown easing")
	ErrUnknownKind      = errors.New("effects: unknown primitive kind")
	ErrInvalidPrimitive = errors.New("effects: invalid primitive")
)
