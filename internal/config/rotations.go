package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/philipparndt/tesseractise/internal/geometry"
)

// ParseRotationFlag parses "PLANE[:DEGREES]", e.g. "X-W:45" or "Y-Z". A missing angle uses the default.
func ParseRotationFlag(s string) (geometry.RotationStep, error) {
	plane, angle, hasAngle := strings.Cut(strings.TrimSpace(s), ":")
	degrees := DefaultRotationAngle
	if hasAngle {
		v, err := strconv.ParseFloat(strings.TrimSpace(angle), 64)
		if err != nil {
			return geometry.RotationStep{}, invalid("rotation %q: angle %q is not a number", s, angle)
		}
		degrees = v
	}
	step, err := NewRotation(plane, degrees)
	if err != nil {
		return geometry.RotationStep{}, fmt.Errorf("rotation %q: %w", s, err)
	}
	return step, nil
}

// RotationList is an editable rotation sequence with a selected entry
type RotationList struct {
	Steps    geometry.RotationSpec
	Selected int
}

// Add appends a default entry (X-W, 45 degrees)
func (l *RotationList) Add() {
	step, _ := NewRotation(DefaultRotationPlane, DefaultRotationAngle)
	l.Steps = append(l.Steps, step)
}

// Append adds step at the end and selects it
func (l *RotationList) Append(step geometry.RotationStep) {
	l.Steps = append(l.Steps, step)
	l.Selected = len(l.Steps) - 1
}

// Remove deletes the selected entry and selects the one before it
func (l *RotationList) Remove() error {
	i := l.Selected
	if i < 0 || i >= len(l.Steps) {
		return fmt.Errorf("no rotation at index %d", i)
	}
	l.Steps = append(l.Steps[:i], l.Steps[i+1:]...)
	if i > 0 {
		l.Selected = i - 1
	}
	return nil
}

// AddFlag appends a --rotate value; "default" adds the default entry
func (l *RotationList) AddFlag(s string) error {
	if strings.EqualFold(strings.TrimSpace(s), "default") {
		l.Add()
		return nil
	}
	step, err := ParseRotationFlag(s)
	if err != nil {
		return err
	}
	l.Append(step)
	return nil
}
