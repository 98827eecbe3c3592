// Package gltfio reads and writes glTF and GLB scenes.
package gltfio

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/scene"
)

// Loader loads glTF/GLB files. Every scene node becomes one object; node transforms are baked in.
type Loader struct{}

// NewLoader creates a new glTF loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load opens path and converts its default scene into a document
func (l *Loader) Load(path string) (*scene.Document, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	out, err := l.Convert(doc, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, o := range out.Objects {
		o.Source = path
	}
	return out, nil
}

// Convert turns an already decoded glTF document into a scene document
func (l *Loader) Convert(doc *gltf.Document, name string) (*scene.Document, error) {
	out := scene.NewDocument(name)

	var roots []int
	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = int(*doc.Scene)
		}
		if sceneIdx >= len(doc.Scenes) {
			return nil, fmt.Errorf("scene %d out of range", sceneIdx)
		}
		for _, n := range doc.Scenes[sceneIdx].Nodes {
			roots = append(roots, int(n))
		}
	} else {
		roots = rootNodes(doc)
	}

	for _, idx := range roots {
		if err := l.processNode(doc, idx, geometry.Identity(), out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// rootNodes returns the nodes that are nobody's child
func rootNodes(doc *gltf.Document) []int {
	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[int(c)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (l *Loader) processNode(doc *gltf.Document, nodeIdx int, parent geometry.Mat4, out *scene.Document) error {
	if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) {
		return fmt.Errorf("node %d out of range", nodeIdx)
	}
	node := doc.Nodes[nodeIdx]
	world := parent.Mul(localTransform(node))

	name := node.Name
	if node.Mesh == nil {
		if name == "" {
			name = fmt.Sprintf("Node %d", nodeIdx)
		}
		out.Add(scene.NewObject(name, scene.KindEmpty))
	} else {
		meshIdx := int(*node.Mesh)
		if meshIdx >= len(doc.Meshes) {
			return fmt.Errorf("node %d: mesh %d out of range", nodeIdx, meshIdx)
		}
		m := doc.Meshes[meshIdx]
		if name == "" {
			name = m.Name
		}
		if name == "" {
			name = fmt.Sprintf("Mesh %d", meshIdx)
		}
		obj, err := readMesh(doc, m, name, world)
		if err != nil {
			return fmt.Errorf("mesh %s: %w", name, err)
		}
		out.Add(obj)
	}

	for _, child := range node.Children {
		if err := l.processNode(doc, int(child), world, out); err != nil {
			return err
		}
	}
	return nil
}

// localTransform builds T·R·S, or uses the node matrix when one is given
func localTransform(node *gltf.Node) geometry.Mat4 {
	identity := [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	if node.Matrix != identity && node.Matrix != [16]float64{} {
		// glTF matrices are column-major
		var m geometry.Mat4
		for c := 0; c < 4; c++ {
			for r := 0; r < 4; r++ {
				m.M[r][c] = node.Matrix[c*4+r]
			}
		}
		return m
	}

	t := geometry.Identity()
	t.M[0][3], t.M[1][3], t.M[2][3] = node.Translation[0], node.Translation[1], node.Translation[2]

	r := geometry.Identity()
	x, y, z, w := node.Rotation[0], node.Rotation[1], node.Rotation[2], node.Rotation[3]
	if x != 0 || y != 0 || z != 0 || (w != 1 && w != 0) {
		r.M = [4][4]float64{
			{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w), 0},
			{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w), 0},
			{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y), 0},
			{0, 0, 0, 1},
		}
	}

	s := geometry.Identity()
	if node.Scale != [3]float64{} {
		s.M[0][0], s.M[1][1], s.M[2][2] = node.Scale[0], node.Scale[1], node.Scale[2]
	}
	return t.Mul(r).Mul(s)
}

// readMesh merges every triangle primitive of m into one object
func readMesh(doc *gltf.Document, m *gltf.Mesh, name string, transform geometry.Mat4) (*scene.Object, error) {
	var vertices []geometry.Point3
	var triangles [][3]int

	for pi, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		if int(posIdx) >= len(doc.Accessors) {
			return nil, fmt.Errorf("primitive %d: accessor %d out of range", pi, posIdx)
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: read positions: %w", pi, err)
		}

		base := len(vertices)
		for _, p := range positions {
			v := transform.MulVec(geometry.Point4{float64(p[0]), float64(p[1]), float64(p[2]), 1})
			vertices = append(vertices, geometry.Point3{v[0], v[1], v[2]})
		}

		if prim.Indices != nil {
			if int(*prim.Indices) >= len(doc.Accessors) {
				return nil, fmt.Errorf("primitive %d: index accessor out of range", pi)
			}
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("primitive %d: read indices: %w", pi, err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				triangles = append(triangles, [3]int{
					base + int(indices[i]), base + int(indices[i+1]), base + int(indices[i+2]),
				})
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				triangles = append(triangles, [3]int{base + i, base + i + 1, base + i + 2})
			}
		}
	}

	obj := scene.NewMesh(name, vertices, triangles)
	if err := obj.Validate(); err != nil {
		return nil, err
	}
	return obj, nil
}

// Writer writes mesh objects as a glTF scene, one node per object
type Writer struct{}

// Build creates a glTF document holding one mesh and node per mesh object
func (w *Writer) Build(objs []*scene.Object) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "tesseractise"

	for _, o := range objs {
		if !o.IsMesh() || len(o.Triangles) == 0 {
			continue
		}
		positions := make([][3]float32, len(o.Vertices))
		for i, v := range o.Vertices {
			for k := 0; k < 3; k++ {
				if math.Abs(v[k]) > math.MaxFloat32 {
					return nil, fmt.Errorf("object %s: vertex %d does not fit a float32", o.Name(), i)
				}
				positions[i][k] = float32(v[k])
			}
		}
		indices := make([]uint32, 0, 3*len(o.Triangles))
		for _, t := range o.Triangles {
			indices = append(indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
		}

		mesh := &gltf.Mesh{
			Name: o.Name(),
			Primitives: []*gltf.Primitive{{
				Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
				Attributes: map[string]int{gltf.POSITION: modeler.WritePosition(doc, positions)},
			}},
		}
		doc.Meshes = append(doc.Meshes, mesh)
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: o.Name(), Mesh: gltf.Index(len(doc.Meshes) - 1)})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc, nil
}

// WriteFile saves objs to path; a .glb extension produces a binary file, anything else embedded JSON
func (w *Writer) WriteFile(path string, objs []*scene.Object) error {
	doc, err := w.Build(objs)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		if err := gltf.SaveBinary(doc, path); err != nil {
			return fmt.Errorf("save glb: %w", err)
		}
		return nil
	}
	for _, b := range doc.Buffers {
		b.EmbeddedResource()
	}
	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("save gltf: %w", err)
	}
	return nil
}
