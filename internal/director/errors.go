package director

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned when two primitives of one beat write the same
	// property of the same object.
	ErrConflict = errors.New("director: conflicting primitives in beat")

	// ErrFinalized rejects submissions after the timeline was closed.
	ErrFinalized = errors.New("director: timeline finalized")

	// ErrEmptyBeat rejects beats with neither primitives nor a wait.
	ErrEmptyBeat = errors.New("director: empty beat")

	// ErrBind marks a beat that could not resolve its targets when it started.
	ErrBind = errors.New("director: cannot bind beat")

	// ErrRewind rejects moving the clock backwards.
	ErrRewind = errors.New("director: clock cannot move backwards")
)

// SequencingError reports a beat that cannot be submitted or run.
type SequencingError struct {
	Beat int
	Err  error
}

func (e *SequencingError) Error() string {
	return fmt.Sprintf("beat %d: %v", e.Beat, e.Err)
}

func (e *SequencingError) Unwrap() error {
	return e.Err
}
