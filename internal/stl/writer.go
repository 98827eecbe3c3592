package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/scene"
)

// Writer writes mesh objects as STL
type Writer struct {
	// Binary merges all objects into a single binary solid; otherwise one ASCII solid per object
	Binary bool
}

// NewWriter creates a new STL writer
func NewWriter(binary bool) *Writer {
	return &Writer{Binary: binary}
}

// WriteFile writes the mesh objects of objs to filename
func (w *Writer) WriteFile(filename string, objs []*scene.Object) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer f.Close()

	if err := w.Write(f, objs); err != nil {
		return err
	}
	return f.Close()
}

// Write writes the mesh objects of objs to out; non-mesh objects are ignored
func (w *Writer) Write(out io.Writer, objs []*scene.Object) error {
	bw := bufio.NewWriter(out)
	var err error
	if w.Binary {
		err = writeBinary(bw, objs)
	} else {
		err = writeASCII(bw, objs)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func writeASCII(w io.Writer, objs []*scene.Object) error {
	for _, o := range objs {
		if !o.IsMesh() {
			continue
		}
		if _, err := fmt.Fprintf(w, "solid %s\n", o.Name()); err != nil {
			return err
		}
		for _, t := range o.Triangles {
			a, b, c := o.Vertices[t[0]], o.Vertices[t[1]], o.Vertices[t[2]]
			n := faceNormal(a, b, c)
			fmt.Fprintf(w, "  facet normal %g %g %g\n    outer loop\n", n.X, n.Y, n.Z)
			for _, v := range []geometry.Point3{a, b, c} {
				fmt.Fprintf(w, "      vertex %g %g %g\n", float32(v[0]), float32(v[1]), float32(v[2]))
			}
			if _, err := fmt.Fprint(w, "    endloop\n  endfacet\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "endsolid %s\n", o.Name()); err != nil {
			return err
		}
	}
	return nil
}

func writeBinary(w io.Writer, objs []*scene.Object) error {
	var count uint32
	for _, o := range objs {
		if o.IsMesh() {
			count += uint32(len(o.Triangles))
		}
	}

	header := make([]byte, headerSize)
	copy(header, "binary STL written by tesseractise")
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return fmt.Errorf("error writing triangle count: %w", err)
	}

	for _, o := range objs {
		if !o.IsMesh() {
			continue
		}
		for _, t := range o.Triangles {
			a, b, c := o.Vertices[t[0]], o.Vertices[t[1]], o.Vertices[t[2]]
			tri := Triangle{Normal: faceNormal(a, b, c), V1: toVector(a), V2: toVector(b), V3: toVector(c)}
			if err := binary.Write(w, binary.LittleEndian, tri); err != nil {
				return fmt.Errorf("error writing triangle: %w", err)
			}
			if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
				return fmt.Errorf("error writing attribute count: %w", err)
			}
		}
	}
	return nil
}

func toVector(p geometry.Point3) Vector3 {
	return Vector3{float32(p[0]), float32(p[1]), float32(p[2])}
}

func faceNormal(a, b, c geometry.Point3) Vector3 {
	u := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := [3]float64{u[1]*v[2] - u[2]*v[1], u[2]*v[0] - u[0]*v[2], u[0]*v[1] - u[1]*v[0]}
	l := geometry.Point3(n).Length()
	if l == 0 {
		return Vector3{}
	}
	return Vector3{float32(n[0] / l), float32(n[1] / l), float32(n[2] / l)}
}
