package scene

import (
	"fmt"

	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/tesseract"
)

// VertexPositions returns a copy of the vertex positions
func (o *Object) VertexPositions() []geometry.Point3 {
	return append([]geometry.Point3(nil), o.Vertices...)
}

// DuplicateAsMesh copies a mesh object into the generated list
func (d *Document) DuplicateAsMesh(obj tesseract.Object) (tesseract.Mesh, error) {
	src, ok := obj.(*Object)
	if !ok {
		return nil, fmt.Errorf("object %s does not belong to a scene document", obj.Name())
	}
	if !src.IsMesh() {
		return nil, fmt.Errorf("object %s is a %s, not a mesh", src.name, src.Kind)
	}
	dup := src.Clone()
	d.Generated = append(d.Generated, dup)
	return &meshHandle{obj: dup}, nil
}

// Discard removes a generated mesh
func (d *Document) Discard(m tesseract.Mesh) {
	h, ok := m.(*meshHandle)
	if !ok {
		return
	}
	for i, o := range d.Generated {
		if o == h.obj {
			d.Generated = append(d.Generated[:i], d.Generated[i+1:]...)
			return
		}
	}
}

// meshHandle exposes a generated object through the tesseract.Mesh contract
type meshHandle struct {
	obj *Object
}

func (h *meshHandle) Name() string        { return h.obj.name }
func (h *meshHandle) IsMesh() bool        { return true }
func (h *meshHandle) SetName(name string) { h.obj.name = name }

func (h *meshHandle) Vertices() []geometry.Point3 {
	return h.obj.VertexPositions()
}

func (h *meshHandle) SetVertices(points []geometry.Point3) error {
	if len(points) != len(h.obj.Vertices) {
		return fmt.Errorf("%w: mesh %s has %d vertices, got %d",
			tesseract.ErrVertexCountMismatch, h.obj.name, len(h.obj.Vertices), len(points))
	}
	copy(h.obj.Vertices, points)
	return nil
}
