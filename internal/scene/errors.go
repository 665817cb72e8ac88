package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownObject means the id is not (or no longer) in the graph.
	ErrUnknownObject = errors.New("scene: unknown object")

	// ErrDegenerateReference means a placement reference has no extent.
	ErrDegenerateReference = errors.New("scene: degenerate reference object")

	// ErrNegativeGap rejects placements with gap < 0.
	ErrNegativeGap = errors.New("scene: negative gap")

	// ErrDuplicateID means an object with that id already exists.
	ErrDuplicateID = errors.New("scene: duplicate object id")

	// ErrCycle rejects attaching a group under one of its own members.
	ErrCycle = errors.New("scene: group cycle")

	// ErrNotGroup means a member operation targeted a non-group object.
	ErrNotGroup = errors.New("scene: not a group")
)

// LayoutError reports a failed placement or graph-structure operation.
type LayoutError struct {
	Op        string
	Subject   ID
	Reference ID
	Err       error
}

func (e *LayoutError) Error() string {
	if e.Reference != "" {
		return fmt.Sprintf("layout %s(%s, %s): %v", e.Op, e.Subject, e.Reference, e.Err)
	}
	return fmt.Sprintf("layout %s(%s): %v", e.Op, e.Subject, e.Err)
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}
