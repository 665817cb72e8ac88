package analyzer

import (
	"errors"
	"fmt"
)

var ErrUnknownDetector = errors.New("analyzer: unknown detector")

// NewDetector returns the detector named by variant. The empty name picks
// the edge detector.
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "edges", "contrast", "":
		return NewEdgeDetector(), nil
	default:
		return nil, fmt.Errorf("%q: %w", variant, ErrUnknownDetector)
	}
}
