package wavefront

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/scene"
)

const twoObjects = `# two objects
mtllib scene.mtl
o Quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
o Tri
v 0 0 2
v 1 0 2
v 0 1 2
f -3/1 -2/1 -1/1
`

func TestLoadSplitsObjects(t *testing.T) {
	doc, err := NewLoader().Load(strings.NewReader(twoObjects), "scene")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(doc.Objects))
	}

	quad := doc.Objects[0]
	if quad.Name() != "Quad" {
		t.Errorf("unexpected name %q", quad.Name())
	}
	if len(quad.Vertices) != 4 || len(quad.Triangles) != 2 {
		t.Errorf("quad has %d vertices, %d triangles", len(quad.Vertices), len(quad.Triangles))
	}
	if quad.Triangles[1] != [3]int{0, 2, 3} {
		t.Errorf("unexpected fan triangle %v", quad.Triangles[1])
	}

	tri := doc.Objects[1]
	if len(tri.Vertices) != 3 {
		t.Fatalf("tri has %d vertices", len(tri.Vertices))
	}
	if tri.Vertices[0] != (geometry.Point3{0, 0, 2}) {
		t.Errorf("negative index resolved to %v", tri.Vertices[0])
	}
}

func TestLoadMergesRepeatedGroups(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
g a
f 1 2 3
g b
f 1 2 4
g a
f 1 3 4
`
	doc, err := NewLoader().Load(strings.NewReader(src), "part")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(doc.Objects))
	}
	a := doc.Objects[0]
	if a.Name() != "a" || doc.Objects[1].Name() != "b" {
		t.Fatalf("unexpected names %q, %q", a.Name(), doc.Objects[1].Name())
	}
	if len(a.Triangles) != 2 || len(a.Vertices) != 4 {
		t.Errorf("group a has %d vertices, %d triangles", len(a.Vertices), len(a.Triangles))
	}
	if a.Triangles[1] != [3]int{0, 2, 3} {
		t.Errorf("second block reuses shared vertices, got %v", a.Triangles[1])
	}
}

func TestLoadUnnamedUsesFileName(t *testing.T) {
	doc, err := NewLoader().Load(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), "part")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Objects) != 1 || doc.Objects[0].Name() != "part" {
		t.Errorf("unexpected objects %+v", doc.Objects)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"bad coordinate", "v 0 x 0\n", "line 1"},
		{"short vertex", "v 0 0\n", "line 1"},
		{"short face", "v 0 0 0\nf 1 1\n", "line 2"},
		{"out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", "out of range"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "line 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load(strings.NewReader(tt.input), "x")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	objs := []*scene.Object{
		scene.NewMesh("A.W-", []geometry.Point3{{0, 0, 0}, {0.5, 0, 0}, {0, 0.25, 0}}, [][3]int{{0, 1, 2}}),
		scene.NewObject("Group", scene.KindAssembly),
		scene.NewMesh("A.X+", []geometry.Point3{{1, 1, 1}, {2, 1, 1}, {1, 2, 1}}, [][3]int{{0, 2, 1}}),
	}

	var buf bytes.Buffer
	if err := (&Writer{}).Write(&buf, objs); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "f 4 6 5") {
		t.Errorf("second object faces not offset:\n%s", buf.String())
	}

	doc, err := NewLoader().Load(&buf, "out")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Objects) != 2 || doc.Objects[1].Name() != "A.X+" {
		t.Fatalf("unexpected objects after round trip")
	}
	if doc.Objects[0].Vertices[1] != (geometry.Point3{0.5, 0, 0}) {
		t.Errorf("unexpected vertex %v", doc.Objects[0].Vertices[1])
	}
}

func TestLoadFileSetsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	objs := []*scene.Object{scene.NewMesh("T", []geometry.Point3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, [][3]int{{0, 1, 2}})}
	if err := (&Writer{}).WriteFile(path, objs); err != nil {
		t.Fatal(err)
	}
	doc, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Objects[0].Source != path || doc.Name != "tri" {
		t.Errorf("unexpected source %q / name %q", doc.Objects[0].Source, doc.Name)
	}
}
