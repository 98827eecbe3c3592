package geometry

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Layout selects how output objects are spread over the XY plane
type Layout int

const (
	// LayoutNone keeps every object where the projection put it
	LayoutNone Layout = iota
	// LayoutGrid places objects in a near-square grid in input order
	LayoutGrid
	// LayoutShelf fills rows up to a maximum width, tallest objects first
	LayoutShelf
)

func (l Layout) String() string {
	switch l {
	case LayoutNone:
		return "none"
	case LayoutGrid:
		return "grid"
	case LayoutShelf:
		return "shelf"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout accepts none, grid and shelf
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return LayoutNone, nil
	case "grid":
		return LayoutGrid, nil
	case "shelf":
		return LayoutShelf, nil
	default:
		return 0, fmt.Errorf("%w: unknown layout %q (none, grid, shelf)", ErrInvalidConfiguration, s)
	}
}

// Rectangle is an object footprint on the XY plane
type Rectangle struct {
	Width, Height float64
	ID            int
}

// Placement is where a rectangle's lower-left corner goes
type Placement struct {
	X, Y float64
	ID   int
}

// Packer arranges footprints with a fixed margin between them
type Packer struct {
	margin float64
}

// NewPacker creates a new packer with the specified margin between objects
func NewPacker(margin float64) *Packer {
	return &Packer{margin: margin}
}

// PackGrid arranges rectangles in a grid; maxColumns <= 0 picks ceil(sqrt(n))
func (p *Packer) PackGrid(objects []Rectangle, maxColumns int) []Placement {
	if len(objects) == 0 {
		return nil
	}
	if maxColumns <= 0 {
		maxColumns = int(math.Ceil(math.Sqrt(float64(len(objects)))))
	}

	rows := (len(objects) + maxColumns - 1) / maxColumns
	columnWidths := make([]float64, maxColumns)
	rowHeights := make([]float64, rows)
	for i, obj := range objects {
		c, r := i%maxColumns, i/maxColumns
		columnWidths[c] = math.Max(columnWidths[c], obj.Width)
		rowHeights[r] = math.Max(rowHeights[r], obj.Height)
	}

	results := make([]Placement, len(objects))
	for i, obj := range objects {
		col, row := i%maxColumns, i/maxColumns
		x := 0.0
		for c := 0; c < col; c++ {
			x += columnWidths[c] + p.margin
		}
		y := 0.0
		for r := 0; r < row; r++ {
			y += rowHeights[r] + p.margin
		}
		results[i] = Placement{X: x, Y: y, ID: obj.ID}
	}
	return results
}

// PackShelf fills shelves left to right up to maxWidth, tallest first.
// Results are returned in the order the rectangles were placed.
func (p *Packer) PackShelf(objects []Rectangle, maxWidth float64) []Placement {
	if len(objects) == 0 {
		return nil
	}

	sorted := append([]Rectangle(nil), objects...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Height > sorted[j].Height
	})

	results := make([]Placement, len(sorted))
	currentX, currentY, shelfHeight := 0.0, 0.0, 0.0
	for i, obj := range sorted {
		if currentX > 0 && currentX+obj.Width > maxWidth {
			currentX = 0
			currentY += shelfHeight + p.margin
			shelfHeight = 0
		}
		results[i] = Placement{X: currentX, Y: currentY, ID: obj.ID}
		currentX += obj.Width + p.margin
		shelfHeight = math.Max(shelfHeight, obj.Height)
	}
	return results
}

// Arrange computes a translation per point set so the XY bounding boxes no longer overlap.
// Offsets are indexed like sets. LayoutNone returns zero offsets.
func Arrange(layout Layout, sets [][]Point3, margin, maxWidth float64) ([]Point3, error) {
	offsets := make([]Point3, len(sets))
	if layout == LayoutNone || len(sets) == 0 {
		return offsets, nil
	}

	boxes := make([]*BoundingBox, len(sets))
	rects := make([]Rectangle, len(sets))
	for i, s := range sets {
		b, err := CalculateBoundingBox(s)
		if err != nil {
			// empty objects take no room
			b = &BoundingBox{}
		}
		boxes[i] = b
		rects[i] = Rectangle{Width: b.Width(), Height: b.Height(), ID: i}
	}

	packer := NewPacker(margin)
	var placements []Placement
	switch layout {
	case LayoutGrid:
		placements = packer.PackGrid(rects, 0)
	case LayoutShelf:
		placements = packer.PackShelf(rects, maxWidth)
	default:
		return nil, fmt.Errorf("%w: unknown layout %d", ErrInvalidConfiguration, int(layout))
	}

	for _, pl := range placements {
		b := boxes[pl.ID]
		offsets[pl.ID] = Point3{pl.X - b.MinX, pl.Y - b.MinY, 0}
	}
	return offsets, nil
}

// Translate adds offset to every point in place
func Translate(points []Point3, offset Point3) {
	for i := range points {
		for k := 0; k < 3; k++ {
			points[i][k] += offset[k]
		}
	}
}
