// Package scene holds mesh documents loaded from files and acts as the host for a tesseract run.
package scene

import (
	"fmt"

	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/tesseract"
)

// Kind describes what an object holds
type Kind string

const (
	// KindMesh objects carry vertices and can be processed
	KindMesh Kind = "mesh"
	// KindAssembly objects only reference other objects (3MF components)
	KindAssembly Kind = "assembly"
	// KindEmpty objects have no geometry (glTF cameras, lights, group nodes)
	KindEmpty Kind = "empty"
)

// Object is a named object of a document
type Object struct {
	name      string
	Kind      Kind
	Vertices  []geometry.Point3
	Triangles [][3]int
	// Source is the file the object was loaded from
	Source string
}

// NewMesh creates a mesh object
func NewMesh(name string, vertices []geometry.Point3, triangles [][3]int) *Object {
	return &Object{name: name, Kind: KindMesh, Vertices: vertices, Triangles: triangles}
}

// NewObject creates an object of any kind without geometry
func NewObject(name string, kind Kind) *Object {
	return &Object{name: name, Kind: kind}
}

func (o *Object) Name() string {
	return o.name
}

func (o *Object) SetName(name string) {
	o.name = name
}

func (o *Object) IsMesh() bool {
	return o.Kind == KindMesh
}

// KindName implements tesseract.Kinded
func (o *Object) KindName() string {
	return string(o.Kind)
}

// Clone deep-copies the object
func (o *Object) Clone() *Object {
	c := *o
	c.Vertices = append([]geometry.Point3(nil), o.Vertices...)
	c.Triangles = append([][3]int(nil), o.Triangles...)
	return &c
}

// Validate checks that every triangle references an existing vertex
func (o *Object) Validate() error {
	for i, t := range o.Triangles {
		for _, v := range t {
			if v < 0 || v >= len(o.Vertices) {
				return fmt.Errorf("object %s: triangle %d references vertex %d of %d", o.name, i, v, len(o.Vertices))
			}
		}
	}
	return nil
}

// Document is an ordered collection of objects plus the objects generated from them
type Document struct {
	Name      string
	Objects   []*Object
	Generated []*Object
}

// NewDocument creates an empty document
func NewDocument(name string) *Document {
	return &Document{Name: name}
}

// Add appends objects to the document
func (d *Document) Add(objs ...*Object) {
	d.Objects = append(d.Objects, objs...)
}

// Append moves every object of other into d, keeping order
func (d *Document) Append(other *Document) {
	d.Objects = append(d.Objects, other.Objects...)
	d.Generated = append(d.Generated, other.Generated...)
}

// Candidates returns the source objects as tesseract objects
func (d *Document) Candidates() []tesseract.Object {
	out := make([]tesseract.Object, len(d.Objects))
	for i, o := range d.Objects {
		out[i] = o
	}
	return out
}

// Find returns the first source or generated object with the given name
func (d *Document) Find(name string) (*Object, bool) {
	for _, o := range append(append([]*Object(nil), d.Objects...), d.Generated...) {
		if o.name == name {
			return o, true
		}
	}
	return nil, false
}

// Output returns the objects to write: generated objects, optionally preceded by the sources
func (d *Document) Output(keepSources bool) []*Object {
	var out []*Object
	if keepSources {
		out = append(out, d.Objects...)
	}
	return append(out, d.Generated...)
}

// MeshCount returns the number of mesh-like source objects
func (d *Document) MeshCount() int {
	n := 0
	for _, o := range d.Objects {
		if o.IsMesh() {
			n++
		}
	}
	return n
}
