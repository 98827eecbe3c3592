package tesseract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/philipparndt/tesseractise/internal/geometry"
)

type fakeObject struct {
	name     string
	kind     string
	vertices []geometry.Point3
}

func (o *fakeObject) Name() string     { return o.name }
func (o *fakeObject) IsMesh() bool     { return o.kind == "mesh" }
func (o *fakeObject) KindName() string { return o.kind }

type fakeMesh struct {
	name     string
	vertices []geometry.Point3
	failSet  bool
}

func (m *fakeMesh) Name() string                { return m.name }
func (m *fakeMesh) IsMesh() bool                { return true }
func (m *fakeMesh) SetName(name string)         { m.name = name }
func (m *fakeMesh) Vertices() []geometry.Point3 { return append([]geometry.Point3(nil), m.vertices...) }
func (m *fakeMesh) SetVertices(p []geometry.Point3) error {
	if m.failSet {
		return fmt.Errorf("read-only mesh")
	}
	if len(p) != len(m.vertices) {
		return fmt.Errorf("expected %d vertices, got %d", len(m.vertices), len(p))
	}
	m.vertices = p
	return nil
}

type fakeHost struct {
	meshes    []*fakeMesh
	discarded []string
	failDup   map[string]bool
	failSet   bool
}

func (h *fakeHost) DuplicateAsMesh(obj Object) (Mesh, error) {
	src := obj.(*fakeObject)
	if h.failDup[src.name] {
		return nil, fmt.Errorf("cannot convert %s", src.name)
	}
	m := &fakeMesh{name: src.name, vertices: append([]geometry.Point3(nil), src.vertices...), failSet: h.failSet}
	h.meshes = append(h.meshes, m)
	return m, nil
}

func (h *fakeHost) Discard(m Mesh) {
	h.discarded = append(h.discarded, m.Name())
}

func TestTesseractise_CreatesNamedCells(t *testing.T) {
	host := &fakeHost{}
	objects := []Object{
		&fakeObject{name: "Cube", kind: "mesh", vertices: []geometry.Point3{{1, 1, 1}, {0.5, 0, 0}}},
		&fakeObject{name: "Camera", kind: "empty"},
		&fakeObject{name: "Ring", kind: "mesh", vertices: []geometry.Point3{{0, 1, 0}}},
	}
	cfg := Config{
		Cells:  []geometry.CellLabel{geometry.CellWMinus, geometry.CellXPlus},
		Params: Params{WScale: 0, CamDistance: 0, Projection: geometry.Orthographic},
	}

	report, err := Tesseractise(host, objects, cfg)
	if err != nil {
		t.Fatalf("Tesseractise: %v", err)
	}
	if err := report.Err(); err != nil {
		t.Fatalf("unexpected failures: %v", err)
	}

	want := []string{"Cube.W-", "Cube.X+", "Ring.W-", "Ring.X+"}
	if len(report.Created) != len(want) {
		t.Fatalf("Created = %v, want %v", report.Created, want)
	}
	for i := range want {
		if report.Created[i] != want[i] {
			t.Errorf("Created[%d] = %q, want %q", i, report.Created[i], want[i])
		}
	}

	if len(report.Skipped) != 1 || report.Skipped[0].Name != "Camera" || report.Skipped[0].Kind != "empty" {
		t.Errorf("Skipped = %+v", report.Skipped)
	}

	// W- with W scale 0 and orthographic projection leaves the mesh unchanged
	if got := host.meshes[0].vertices; got[0] != (geometry.Point3{1, 1, 1}) || got[1] != (geometry.Point3{0.5, 0, 0}) {
		t.Errorf("Cube.W- vertices = %v", got)
	}
	// X+ embeds (x,y,z) as (1,x,y,z); orthographic keeps (1,x,y)
	if got := host.meshes[1].vertices; got[0] != (geometry.Point3{1, 1, 1}) || got[1] != (geometry.Point3{1, 0.5, 0}) {
		t.Errorf("Cube.X+ vertices = %v", got)
	}
}

func TestTesseractise_FailuresAreIsolated(t *testing.T) {
	host := &fakeHost{failDup: map[string]bool{"Broken": true}}
	objects := []Object{
		&fakeObject{name: "Broken", kind: "mesh", vertices: []geometry.Point3{{1, 2, 3}}},
		&fakeObject{name: "Origin", kind: "mesh", vertices: []geometry.Point3{{0, 0, 0}}},
	}
	cfg := Config{
		Cells:  []geometry.CellLabel{geometry.CellWMinus, geometry.CellXMinus},
		Params: Params{WScale: 0, CamDistance: 0, Projection: geometry.FishEye},
	}

	report, err := Tesseractise(host, objects, cfg)
	if err != nil {
		t.Fatalf("Tesseractise: %v", err)
	}

	// Broken fails twice at duplication, Origin.W- hits the 4D origin, Origin.X- succeeds
	if len(report.Failures) != 3 {
		t.Fatalf("got %d failures, want 3: %v", len(report.Failures), report.Failures)
	}
	if len(report.Created) != 1 || report.Created[0] != "Origin.X-" {
		t.Errorf("Created = %v, want [Origin.X-]", report.Created)
	}
	if len(host.discarded) != 1 || host.discarded[0] != "Origin.W-" {
		t.Errorf("discarded = %v, want [Origin.W-]", host.discarded)
	}

	codes := map[Code]int{}
	for _, f := range report.Failures {
		var pe *PairError
		if !errors.As(f, &pe) {
			t.Fatalf("failure %T is not *PairError", f)
		}
		codes[pe.Code]++
	}
	if codes[CodeHostFailure] != 2 || codes[CodeDegenerateProjection] != 1 {
		t.Errorf("codes = %v", codes)
	}
}

func TestTesseractise_WriteBackFailure(t *testing.T) {
	host := &fakeHost{failSet: true}
	objects := []Object{&fakeObject{name: "Cube", kind: "mesh", vertices: []geometry.Point3{{1, 1, 1}}}}

	report, err := Tesseractise(host, objects, DefaultConfig())
	if err != nil {
		t.Fatalf("Tesseractise: %v", err)
	}
	if len(report.Created) != 0 {
		t.Errorf("Created = %v, want none", report.Created)
	}
	if len(report.Failures) != len(DefaultCells) {
		t.Errorf("got %d failures, want %d", len(report.Failures), len(DefaultCells))
	}
	if len(host.discarded) != len(DefaultCells) {
		t.Errorf("discarded %d meshes, want %d", len(host.discarded), len(DefaultCells))
	}
}

func TestTesseractise_InvalidConfiguration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params.WScale = -3
	if _, err := Tesseractise(&fakeHost{}, nil, cfg); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestSkippedInput_Error(t *testing.T) {
	s := &SkippedInput{Name: "Lamp", Kind: "empty"}
	if got := s.Error(); got != "object Lamp is not a mesh (empty), skipping" {
		t.Errorf("Error() = %q", got)
	}
}
