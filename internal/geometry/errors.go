package geometry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfiguration marks malformed planes, labels, angles or parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDegenerateProjection marks a 4D point that cannot be projected to 3D
	ErrDegenerateProjection = errors.New("degenerate projection")
)

// DegenerateProjectionError lists every vertex a projection could not map to a finite 3D point
type DegenerateProjectionError struct {
	Projection Projection
	Indices    []int
}

func (e *DegenerateProjectionError) Error() string {
	const shown = 8
	idx := make([]string, 0, shown)
	for i, v := range e.Indices {
		if i == shown {
			idx = append(idx, "...")
			break
		}
		idx = append(idx, fmt.Sprint(v))
	}
	return fmt.Sprintf("%s projection: %d degenerate vertex(es) [%s]",
		e.Projection, len(e.Indices), strings.Join(idx, ", "))
}

func (e *DegenerateProjectionError) Unwrap() error {
	return ErrDegenerateProjection
}
