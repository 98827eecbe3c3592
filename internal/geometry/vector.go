package geometry

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Point3 is a position in 3D space (X, Y, Z)
type Point3 [3]float64

// Length returns the Euclidean norm
func (p Point3) Length() float64 {
	return floats.Norm(p[:], 2)
}

// Point4 is a position in 4D space (X, Y, Z, W)
type Point4 [4]float64

// Axis identifies one of the four coordinate axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisW
)

var axisNames = [...]string{"X", "Y", "Z", "W"}

func (a Axis) String() string {
	if a < AxisX || a > AxisW {
		return fmt.Sprintf("Axis(%d)", int(a))
	}
	return axisNames[a]
}

// Valid reports whether a is one of X, Y, Z, W
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisW
}

// ParseAxis parses a single axis letter (case-insensitive)
func ParseAxis(s string) (Axis, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return AxisX, nil
	case "Y":
		return AxisY, nil
	case "Z":
		return AxisZ, nil
	case "W":
		return AxisW, nil
	default:
		return 0, fmt.Errorf("%w: unknown axis %q", ErrInvalidConfiguration, s)
	}
}

// Plane is a pair of distinct axes spanning a rotation plane
type Plane struct {
	A, B Axis
}

// Standard rotation planes
var (
	PlaneXY = Plane{AxisX, AxisY}
	PlaneXZ = Plane{AxisX, AxisZ}
	PlaneXW = Plane{AxisX, AxisW}
	PlaneYZ = Plane{AxisY, AxisZ}
	PlaneYW = Plane{AxisY, AxisW}
	PlaneZW = Plane{AxisZ, AxisW}
)

// NewPlane builds a plane from two axes, rejecting identical or unknown axes
func NewPlane(a, b Axis) (Plane, error) {
	p := Plane{A: a, B: b}
	if err := p.Validate(); err != nil {
		return Plane{}, err
	}
	return p, nil
}

// ParsePlane parses a plane label such as "X-W"
func ParsePlane(s string) (Plane, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return Plane{}, fmt.Errorf("%w: plane %q must look like X-W", ErrInvalidConfiguration, s)
	}
	a, err := ParseAxis(parts[0])
	if err != nil {
		return Plane{}, err
	}
	b, err := ParseAxis(parts[1])
	if err != nil {
		return Plane{}, err
	}
	return NewPlane(a, b)
}

// Validate checks that both axes are known and distinct
func (p Plane) Validate() error {
	if !p.A.Valid() || !p.B.Valid() {
		return fmt.Errorf("%w: plane %s has an unknown axis", ErrInvalidConfiguration, p)
	}
	if p.A == p.B {
		return fmt.Errorf("%w: plane %s names the same axis twice", ErrInvalidConfiguration, p)
	}
	return nil
}

func (p Plane) String() string {
	return p.A.String() + "-" + p.B.String()
}
