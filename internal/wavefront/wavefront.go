// Package wavefront reads and writes Wavefront OBJ files.
package wavefront

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/scene"
)

// Loader loads OBJ files. Every o or g statement starts a new object unless the name was seen before.
type Loader struct{}

// NewLoader creates a new OBJ loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile loads an OBJ file from disk
func (l *Loader) LoadFile(path string) (*scene.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc, err := l.Load(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, o := range doc.Objects {
		o.Source = path
	}
	return doc, nil
}

// objectBuilder collects the faces of one object, remapping global position indices to local ones
type objectBuilder struct {
	name      string
	local     map[int]int
	vertices  []geometry.Point3
	triangles [][3]int
}

func newObjectBuilder(name string) *objectBuilder {
	return &objectBuilder{name: name, local: make(map[int]int)}
}

func (b *objectBuilder) vertex(global int, positions []geometry.Point3) int {
	if idx, ok := b.local[global]; ok {
		return idx
	}
	idx := len(b.vertices)
	b.local[global] = idx
	b.vertices = append(b.vertices, positions[global])
	return idx
}

// Load parses an OBJ from a reader. name is used for faces before the first o or g statement.
func (l *Loader) Load(r io.Reader, name string) (*scene.Document, error) {
	doc := scene.NewDocument(name)

	var positions []geometry.Point3
	var builders []*objectBuilder
	byName := make(map[string]*objectBuilder)

	// repeated o or g statements with the same name continue the earlier object
	builder := func(objName string) *objectBuilder {
		if b, ok := byName[objName]; ok {
			return b
		}
		b := newObjectBuilder(objName)
		byName[objName] = b
		builders = append(builders, b)
		return b
	}
	current := builder(name)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: invalid vertex (need x y z)", lineNum)
			}
			var p geometry.Point3
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid coordinate %q", lineNum, fields[i+1])
				}
				p[i] = v
			}
			positions = append(positions, p)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			face := make([]int, 0, len(fields)-1)
			for _, field := range fields[1:] {
				idx, err := parseFaceVertex(field, len(positions))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				face = append(face, current.vertex(idx, positions))
			}
			// fan triangulation, convex polygons only
			for i := 1; i < len(face)-1; i++ {
				current.triangles = append(current.triangles, [3]int{face[0], face[i], face[i+1]})
			}

		case "o", "g":
			objName := name
			if len(fields) > 1 {
				objName = strings.Join(fields[1:], " ")
			}
			current = builder(objName)

		default:
			// vt, vn, mtllib, usemtl, s and others carry nothing we keep
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}
	for _, b := range builders {
		if len(b.triangles) == 0 {
			continue
		}
		doc.Add(scene.NewMesh(b.name, b.vertices, b.triangles))
	}
	return doc, nil
}

// parseFaceVertex parses v, v/vt, v/vt/vn or v//vn and returns the 0-based position index
func parseFaceVertex(s string, count int) (int, error) {
	pos, _, _ := strings.Cut(s, "/")
	idx, err := strconv.Atoi(pos)
	if err != nil {
		return 0, fmt.Errorf("invalid vertex index: %s", pos)
	}
	switch {
	case idx > 0:
		idx--
	case idx < 0:
		// negative indices count back from the last vertex seen so far
		idx += count
	default:
		return 0, fmt.Errorf("vertex index 0 is not allowed")
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("position index %s out of range", pos)
	}
	return idx, nil
}

// Writer writes mesh objects as OBJ
type Writer struct{}

// WriteFile writes objs to path
func (w *Writer) WriteFile(path string, objs []*scene.Object) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create OBJ file: %w", err)
	}
	defer f.Close()

	if err := w.Write(f, objs); err != nil {
		return err
	}
	return f.Close()
}

// Write emits one o block per mesh object; face indices are global and 1-based
func (w *Writer) Write(out io.Writer, objs []*scene.Object) error {
	bw := bufio.NewWriter(out)
	fmt.Fprintln(bw, "# tesseractise")

	offset := 1
	for _, o := range objs {
		if !o.IsMesh() {
			continue
		}
		fmt.Fprintf(bw, "o %s\n", o.Name())
		for _, v := range o.Vertices {
			fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
		}
		for _, t := range o.Triangles {
			fmt.Fprintf(bw, "f %d %d %d\n", t[0]+offset, t[1]+offset, t[2]+offset)
		}
		offset += len(o.Vertices)
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
