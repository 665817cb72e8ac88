package chart

import (
	"errors"
	"fmt"
)

var (
	// ErrDivideByZero is returned for empty series or a non-positive maximum.
	ErrDivideByZero = errors.New("chart: series maximum is not positive")

	// ErrInvalidValue rejects NaN, Inf and negative bar values.
	ErrInvalidValue = errors.New("chart: invalid series value")

	// ErrInvalidAxis rejects axes with min >= max or non-positive length.
	ErrInvalidAxis = errors.New("chart: invalid axis range")
)

// ScaleError reports a series or axis that cannot be mapped to geometry.
type ScaleError struct {
	Series string
	Index  int
	Err    error
}

func (e *ScaleError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("scale %q[%d]: %v", e.Series, e.Index, e.Err)
	}
	return fmt.Sprintf("scale %q: %v", e.Series, e.Err)
}

func (e *ScaleError) Unwrap() error {
	return e.Err
}
