package tesseract

import (
	"errors"
	"fmt"

	"github.com/philipparndt/tesseractise/internal/geometry"
)

// Code is a machine-readable failure category
type Code string

const (
	CodeSkippedInput         Code = "SKIPPED_INPUT"
	CodeDegenerateProjection Code = "DEGENERATE_PROJECTION"
	CodeInvalidConfiguration Code = "INVALID_CONFIGURATION"
	CodeHostFailure          Code = "HOST_FAILURE"
	CodeVertexCountMismatch  Code = "VERTEX_COUNT_MISMATCH"
	CodeUnknown              Code = "UNKNOWN"
)

var (
	ErrInvalidConfiguration = geometry.ErrInvalidConfiguration
	ErrDegenerateProjection = geometry.ErrDegenerateProjection
	ErrVertexCountMismatch  = errors.New("vertex count mismatch")
)

// SkippedInput reports an object that is not mesh-like and was left untouched
type SkippedInput struct {
	Name string
	Kind string
}

func (s *SkippedInput) Error() string {
	if s.Kind == "" {
		return fmt.Sprintf("object %s is not a mesh, skipping", s.Name)
	}
	return fmt.Sprintf("object %s is not a mesh (%s), skipping", s.Name, s.Kind)
}

// PairError is the failure of a single (mesh, cell) pair
type PairError struct {
	Mesh  string
	Label geometry.CellLabel
	Code  Code
	Err   error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Mesh, e.Label, e.Err)
}

func (e *PairError) Unwrap() error {
	return e.Err
}

func newPairError(mesh string, label geometry.CellLabel, err error) *PairError {
	return &PairError{Mesh: mesh, Label: label, Code: codeOf(err), Err: err}
}

func codeOf(err error) Code {
	switch {
	case errors.Is(err, ErrDegenerateProjection):
		return CodeDegenerateProjection
	case errors.Is(err, ErrInvalidConfiguration):
		return CodeInvalidConfiguration
	case errors.Is(err, ErrVertexCountMismatch):
		return CodeVertexCountMismatch
	default:
		return CodeUnknown
	}
}
