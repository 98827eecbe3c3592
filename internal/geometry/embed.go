package geometry

import (
	"fmt"
	"strings"
)

// CellLabel names one of the eight cells of a tesseract: the axis held constant and its sign
type CellLabel uint8

const (
	CellXMinus CellLabel = iota
	CellXPlus
	CellYMinus
	CellYPlus
	CellZMinus
	CellZPlus
	CellWMinus
	CellWPlus
)

// AllCells lists every cell label in axis order
var AllCells = []CellLabel{
	CellXMinus, CellXPlus,
	CellYMinus, CellYPlus,
	CellZMinus, CellZPlus,
	CellWMinus, CellWPlus,
}

// NewCellLabel returns the cell holding axis at +1 (positive) or -1
func NewCellLabel(axis Axis, positive bool) CellLabel {
	l := CellLabel(axis) * 2
	if positive {
		l++
	}
	return l
}

// ParseCellLabel parses labels such as "W-" or "x+"
func ParseCellLabel(s string) (CellLabel, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 || (s[1] != '-' && s[1] != '+') {
		return 0, fmt.Errorf("%w: cell %q must be an axis followed by + or -", ErrInvalidConfiguration, s)
	}
	axis, err := ParseAxis(s[:1])
	if err != nil {
		return 0, err
	}
	return NewCellLabel(axis, s[1] == '+'), nil
}

// Valid reports whether l is one of the eight cells
func (l CellLabel) Valid() bool {
	return l <= CellWPlus
}

// Axis returns the axis held constant
func (l CellLabel) Axis() Axis {
	return Axis(l / 2)
}

// Sign returns the constant coordinate, -1 or +1
func (l CellLabel) Sign() float64 {
	if l%2 == 1 {
		return 1
	}
	return -1
}

func (l CellLabel) String() string {
	if !l.Valid() {
		return fmt.Sprintf("CellLabel(%d)", uint8(l))
	}
	if l%2 == 1 {
		return l.Axis().String() + "+"
	}
	return l.Axis().String() + "-"
}

// Embed lifts 3D points onto a tesseract cell. The constant ±1 is placed at the label's axis and the
// three input coordinates fill the remaining axes in ascending order, so Z- maps (x,y,z) to (x,y,-1,z).
func Embed(points []Point3, label CellLabel) []Point4 {
	k := int(label.Axis())
	sign := label.Sign()
	out := make([]Point4, len(points))
	for i, p := range points {
		j := 0
		for axis := 0; axis < 4; axis++ {
			if axis == k {
				out[i][axis] = sign
				continue
			}
			out[i][axis] = p[j]
			j++
		}
	}
	return out
}

// Unembed drops the label's constant axis and reassembles the remaining coordinates in order
func Unembed(points []Point4, label CellLabel) []Point3 {
	k := int(label.Axis())
	out := make([]Point3, len(points))
	for i, p := range points {
		j := 0
		for axis := 0; axis < 4; axis++ {
			if axis == k {
				continue
			}
			out[i][j] = p[axis]
			j++
		}
	}
	return out
}
