package geometry

import (
	"fmt"
	"math"
)

// BoundingBox represents a 3D bounding box
type BoundingBox struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// Width returns the width (X dimension) of the bounding box
func (b *BoundingBox) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the height (Y dimension) of the bounding box
func (b *BoundingBox) Height() float64 {
	return b.MaxY - b.MinY
}

// Depth returns the depth (Z dimension) of the bounding box
func (b *BoundingBox) Depth() float64 {
	return b.MaxZ - b.MinZ
}

// Center returns the midpoint of the box
func (b *BoundingBox) Center() Point3 {
	return Point3{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2, (b.MinZ + b.MaxZ) / 2}
}

func (b *BoundingBox) String() string {
	return fmt.Sprintf("%.3f × %.3f × %.3f", b.Width(), b.Height(), b.Depth())
}

// CalculateBoundingBox returns the axis-aligned bounds of a point array
func CalculateBoundingBox(points []Point3) (*BoundingBox, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no vertices")
	}

	first := points[0]
	bbox := &BoundingBox{
		MinX: first[0], MinY: first[1], MinZ: first[2],
		MaxX: first[0], MaxY: first[1], MaxZ: first[2],
	}
	for _, p := range points[1:] {
		bbox.include(p)
	}
	return bbox, nil
}

// CalculateCombinedBoundingBox returns the bounds of several point arrays, ignoring empty ones
func CalculateCombinedBoundingBox(sets ...[]Point3) (*BoundingBox, error) {
	var combined *BoundingBox
	for _, points := range sets {
		bbox, err := CalculateBoundingBox(points)
		if err != nil {
			continue
		}
		if combined == nil {
			combined = bbox
			continue
		}
		combined.include(Point3{bbox.MinX, bbox.MinY, bbox.MinZ})
		combined.include(Point3{bbox.MaxX, bbox.MaxY, bbox.MaxZ})
	}
	if combined == nil {
		return nil, fmt.Errorf("no valid objects found")
	}
	return combined, nil
}

func (b *BoundingBox) include(p Point3) {
	b.MinX = math.Min(b.MinX, p[0])
	b.MinY = math.Min(b.MinY, p[1])
	b.MinZ = math.Min(b.MinZ, p[2])
	b.MaxX = math.Max(b.MaxX, p[0])
	b.MaxY = math.Max(b.MaxY, p[1])
	b.MaxZ = math.Max(b.MaxZ, p[2])
}
