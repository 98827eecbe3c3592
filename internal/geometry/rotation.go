package geometry

import (
	"fmt"
	"math"
)

// MaxAngle bounds a single rotation step, in radians (one full turn either way)
const MaxAngle = 2 * math.Pi

// angleSlack absorbs rounding when angles arrive in degrees and are converted
const angleSlack = 1e-9

// Mat4 is a 4x4 matrix stored row-major
type Mat4 struct {
	M [4][4]float64
}

// Identity returns the 4x4 identity matrix
func Identity() Mat4 {
	return Mat4{M: [4][4]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// Mul returns A·B
func (A Mat4) Mul(B Mat4) Mat4 {
	var R Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += A.M[r][k] * B.M[k][c]
			}
			R.M[r][c] = sum
		}
	}
	return R
}

// Transpose returns Aᵀ
func (A Mat4) Transpose() Mat4 {
	var R Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			R.M[r][c] = A.M[c][r]
		}
	}
	return R
}

// MulVec returns A·p with p treated as a column vector
func (A Mat4) MulVec(p Point4) Point4 {
	var out Point4
	for r := 0; r < 4; r++ {
		out[r] = A.M[r][0]*p[0] + A.M[r][1]*p[1] + A.M[r][2]*p[2] + A.M[r][3]*p[3]
	}
	return out
}

// RowMul returns p·A with p treated as a row vector
func (A Mat4) RowMul(p Point4) Point4 {
	var out Point4
	for c := 0; c < 4; c++ {
		out[c] = p[0]*A.M[0][c] + p[1]*A.M[1][c] + p[2]*A.M[2][c] + p[3]*A.M[3][c]
	}
	return out
}

// BuildPlaneRotation returns the right-hand rotation by angle (radians) in the plane spanned by axes a and b.
// The matrix is the identity on the two remaining axes and is meant for column vectors.
func BuildPlaneRotation(angle float64, a, b Axis) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	M := Identity()
	M.M[a][a], M.M[a][b] = c, -s
	M.M[b][a], M.M[b][b] = s, c
	return M
}

// RotationStep is a single plane rotation; Angle is in radians
type RotationStep struct {
	Angle float64
	Plane Plane
}

// Validate rejects identical axes and angles outside [-2π, 2π]
func (s RotationStep) Validate() error {
	if err := s.Plane.Validate(); err != nil {
		return err
	}
	if math.IsNaN(s.Angle) || math.IsInf(s.Angle, 0) {
		return fmt.Errorf("%w: rotation angle in %s is not finite", ErrInvalidConfiguration, s.Plane)
	}
	if math.Abs(s.Angle) > MaxAngle+angleSlack {
		return fmt.Errorf("%w: rotation angle %.6g rad in %s is outside [-2π, 2π]", ErrInvalidConfiguration, s.Angle, s.Plane)
	}
	return nil
}

// Matrix returns the column-vector rotation matrix for this step
func (s RotationStep) Matrix() Mat4 {
	return BuildPlaneRotation(s.Angle, s.Plane.A, s.Plane.B)
}

func (s RotationStep) String() string {
	return fmt.Sprintf("%s %.2f°", s.Plane, s.Angle*180/math.Pi)
}

// RotationSpec is an ordered list of rotation steps, applied first to last
type RotationSpec []RotationStep

// Validate checks every step, reporting the first invalid one by position
func (rs RotationSpec) Validate() error {
	for i, s := range rs {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("rotation %d: %w", i+1, err)
		}
	}
	return nil
}

// Inverse returns the sequence that undoes rs: steps reversed, angles negated
func (rs RotationSpec) Inverse() RotationSpec {
	inv := make(RotationSpec, len(rs))
	for i, s := range rs {
		inv[len(rs)-1-i] = RotationStep{Angle: -s.Angle, Plane: s.Plane}
	}
	return inv
}

// ComposeRotations folds steps left to right into one row-vector transform T = R1ᵀ·R2ᵀ·…·Rnᵀ.
// T.RowMul(p) is the same as rotating p by every step in list order.
func ComposeRotations(steps RotationSpec) Mat4 {
	T := Identity()
	for _, s := range steps {
		T = T.Mul(s.Matrix().Transpose())
	}
	return T
}

// Rotate applies a composed row-vector transform to every point in place
func Rotate(points []Point4, T Mat4) {
	for i, p := range points {
		points[i] = T.RowMul(p)
	}
}
