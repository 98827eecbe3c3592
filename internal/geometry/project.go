package geometry

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// DegenerateEpsilon is the smallest |W| (Perspective) or norm (FishEye) still considered projectable
const DegenerateEpsilon = 1e-12

// Projection selects how 4D points are mapped back to 3D
type Projection int

const (
	Perspective Projection = iota
	FishEye
	Orthographic
)

func (p Projection) String() string {
	switch p {
	case Perspective:
		return "perspective"
	case FishEye:
		return "fish-eye"
	case Orthographic:
		return "orthographic"
	default:
		return fmt.Sprintf("Projection(%d)", int(p))
	}
}

// ParseProjection accepts perspective, fish-eye (or fisheye) and orthographic, case-insensitively
func ParseProjection(s string) (Projection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "perspective":
		return Perspective, nil
	case "fish-eye", "fisheye":
		return FishEye, nil
	case "orthographic", "ortho":
		return Orthographic, nil
	default:
		return 0, fmt.Errorf("%w: unknown projection %q (perspective, fish-eye, orthographic)", ErrInvalidConfiguration, s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Projection) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Projection) UnmarshalText(text []byte) error {
	v, err := ParseProjection(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ProjectFishEye normalizes p and scales its XYZ part by the cosine of its angle to the W axis.
// ok is false for points at (or numerically at) the origin.
func ProjectFishEye(p Point4) (out Point3, ok bool) {
	norm := floats.Norm(p[:], 2)
	if !(norm > DegenerateEpsilon) || math.IsInf(norm, 0) {
		return Point3{}, false
	}
	cos := p[3] / norm
	for i := 0; i < 3; i++ {
		out[i] = cos * (p[i] / norm)
	}
	return out, finite3(out)
}

// ProjectPerspective divides XYZ by W. ok is false when W is zero or close to it.
func ProjectPerspective(p Point4) (out Point3, ok bool) {
	w := p[3]
	if !(math.Abs(w) > DegenerateEpsilon) {
		return Point3{}, false
	}
	out = Point3{p[0] / w, p[1] / w, p[2] / w}
	return out, finite3(out)
}

// ProjectOrthographic drops W
func ProjectOrthographic(p Point4) (Point3, bool) {
	out := Point3{p[0], p[1], p[2]}
	return out, finite3(out)
}

func (p Projection) pointFunc() (func(Point4) (Point3, bool), error) {
	switch p {
	case Perspective:
		return ProjectPerspective, nil
	case FishEye:
		return ProjectFishEye, nil
	case Orthographic:
		return ProjectOrthographic, nil
	default:
		return nil, fmt.Errorf("%w: unknown projection %d", ErrInvalidConfiguration, int(p))
	}
}

// Project maps every point with the selected projection. Output index i corresponds to input index i.
// If any point is degenerate no points are returned and the error is a *DegenerateProjectionError
// listing all offending indices.
func Project(mode Projection, points []Point4) ([]Point3, error) {
	fn, err := mode.pointFunc()
	if err != nil {
		return nil, err
	}
	out := make([]Point3, len(points))
	var bad []int
	for i, p := range points {
		q, ok := fn(p)
		if !ok {
			bad = append(bad, i)
			continue
		}
		out[i] = q
	}
	if len(bad) > 0 {
		return nil, &DegenerateProjectionError{Projection: mode, Indices: bad}
	}
	return out, nil
}

func finite3(p Point3) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
