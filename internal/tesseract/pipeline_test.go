package tesseract

import (
	"errors"
	"math"
	"testing"

	"github.com/philipparndt/tesseractise/internal/geometry"
)

func TestRun_SingleVertexOrthographic(t *testing.T) {
	cfg := Config{
		Cells:  []geometry.CellLabel{geometry.CellWMinus},
		Params: Params{WScale: 0, CamDistance: 0, Projection: geometry.Orthographic},
	}

	result, err := Run([]MeshInput{{Name: "Cube", Points: []geometry.Point3{{1, 1, 1}}}}, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Cells) != 1 {
		t.Fatalf("got %d cells, want 1", len(result.Cells))
	}

	cell := result.Cells[0]
	if cell.Err != nil {
		t.Fatalf("cell error: %v", cell.Err)
	}
	if cell.Name() != "Cube.W-" {
		t.Errorf("Name() = %q, want Cube.W-", cell.Name())
	}
	if len(cell.Points) != 1 || cell.Points[0] != (geometry.Point3{1, 1, 1}) {
		t.Errorf("Points = %v, want [(1,1,1)]", cell.Points)
	}
}

func TestRun_TwoMeshesThreeLabels(t *testing.T) {
	meshes := []MeshInput{
		{Name: "A", Points: []geometry.Point3{{0.5, 0.5, 0.5}, {-0.5, 0.25, 0}}},
		{Name: "B", Points: []geometry.Point3{{0.1, 0.2, 0.3}, {0.3, 0.2, 0.1}, {0, 0, 0}}},
	}
	cells := []geometry.CellLabel{geometry.CellZPlus, geometry.CellWMinus, geometry.CellXMinus}

	cfg := DefaultConfig()
	cfg.Cells = cells
	cfg.Workers = 3
	cfg.Rotations = geometry.RotationSpec{{Angle: math.Pi / 4, Plane: geometry.PlaneXW}}

	result, err := Run(meshes, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Cells) != 6 {
		t.Fatalf("got %d outputs, want 6", len(result.Cells))
	}
	if err := result.Err(); err != nil {
		t.Fatalf("unexpected failures: %v", err)
	}

	i := 0
	for mi, m := range meshes {
		for _, label := range cells {
			c := result.Cells[i]
			if c.MeshIndex != mi || c.Label != label || c.Mesh != m.Name {
				t.Errorf("cell %d = (%d, %s, %s), want (%d, %s, %s)", i, c.MeshIndex, c.Mesh, c.Label, mi, m.Name, label)
			}
			if len(c.Points) != len(m.Points) {
				t.Errorf("%s: %d points, want %d", c.Name(), len(c.Points), len(m.Points))
			}
			found, ok := result.Lookup(mi, label)
			if !ok || found != &result.Cells[i] {
				t.Errorf("Lookup(%d, %s) did not return cell %d", mi, label, i)
			}
			i++
		}
	}
}

func TestRun_MatchesSerialComputation(t *testing.T) {
	points := []geometry.Point3{{1, 2, 3}, {-1, 0.5, 0.25}, {0.3, -0.7, 0.9}, {0, 0, 1}}
	cfg := Config{
		Cells: geometry.AllCells,
		Rotations: geometry.RotationSpec{
			{Angle: 0.4, Plane: geometry.PlaneXW},
			{Angle: -1.2, Plane: geometry.PlaneYZ},
		},
		Params:  Params{WScale: 2.5, CamDistance: 4, Projection: geometry.Perspective},
		Workers: 8,
	}

	result, err := Run([]MeshInput{{Name: "m", Points: points}}, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	T := geometry.ComposeRotations(cfg.Rotations)
	for _, c := range result.Cells {
		if c.Err != nil {
			t.Fatalf("%s: %v", c.Name(), c.Err)
		}
		v := geometry.Embed(points, c.Label)
		for i := range v {
			p := T.RowMul(v[i])
			p[3] = p[3]*cfg.Params.WScale - cfg.Params.CamDistance
			want := geometry.Point3{p[0] / p[3], p[1] / p[3], p[2] / p[3]}
			for k := 0; k < 3; k++ {
				if math.Abs(c.Points[i][k]-want[k]) > 1e-12 {
					t.Fatalf("%s vertex %d = %v, want %v", c.Name(), i, c.Points[i], want)
				}
			}
		}
	}
}

func TestRun_DegeneratePairIsIsolated(t *testing.T) {
	// W+ with WScale 1 and camera at 1 puts W at exactly 0 for every vertex
	cfg := Config{
		Cells:  []geometry.CellLabel{geometry.CellWMinus, geometry.CellWPlus, geometry.CellZMinus},
		Params: Params{WScale: 1, CamDistance: 1, Projection: geometry.Perspective},
	}
	meshes := []MeshInput{{Name: "Cube", Points: []geometry.Point3{{1, 1, 2}, {-1, -1, -1}}}}

	result, err := Run(meshes, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	failures := result.Failures()
	if len(failures) != 1 {
		t.Fatalf("got %d failures, want 1: %v", len(failures), failures)
	}

	var pairErr *PairError
	if !errors.As(failures[0], &pairErr) {
		t.Fatalf("failure %T is not *PairError", failures[0])
	}
	if pairErr.Label != geometry.CellWPlus || pairErr.Code != CodeDegenerateProjection {
		t.Errorf("pair error = %+v", pairErr)
	}
	if !errors.Is(result.Err(), ErrDegenerateProjection) {
		t.Errorf("Err() = %v, want ErrDegenerateProjection", result.Err())
	}

	for _, c := range result.Cells {
		if c.Label == geometry.CellWPlus {
			if c.Points != nil {
				t.Errorf("failed pair returned points %v", c.Points)
			}
			continue
		}
		if c.Err != nil || len(c.Points) != 2 {
			t.Errorf("%s: err=%v points=%v", c.Name(), c.Err, c.Points)
		}
	}
}

func TestRun_FishEyeOriginFails(t *testing.T) {
	// W- embeds the origin at (0,0,0,-1); W scale 0 moves it onto the 4D origin
	cfg := Config{
		Cells:  []geometry.CellLabel{geometry.CellWMinus},
		Params: Params{WScale: 0, CamDistance: 0, Projection: geometry.FishEye},
	}
	result, err := Run([]MeshInput{{Name: "p", Points: []geometry.Point3{{0, 0, 0}, {1, 0, 0}}}}, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	c := result.Cells[0]
	var degErr *geometry.DegenerateProjectionError
	if !errors.As(c.Err, &degErr) {
		t.Fatalf("Err = %v, want DegenerateProjectionError", c.Err)
	}
	if len(degErr.Indices) != 1 || degErr.Indices[0] != 0 {
		t.Errorf("Indices = %v, want [0]", degErr.Indices)
	}
}

func TestRun_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative w scale", Config{Params: Params{WScale: -1}}},
		{"nan camera", Config{Params: Params{CamDistance: math.NaN()}}},
		{"same axis", Config{Rotations: geometry.RotationSpec{{Angle: 1, Plane: geometry.Plane{A: geometry.AxisX, B: geometry.AxisX}}}}},
		{"angle out of range", Config{Rotations: geometry.RotationSpec{{Angle: 10, Plane: geometry.PlaneXY}}}},
		{"unknown cell", Config{Cells: []geometry.CellLabel{geometry.CellLabel(42)}}},
		{"unknown projection", Config{Params: Params{Projection: geometry.Projection(9)}}},
		{"negative workers", Config{Workers: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(nil, tt.cfg)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Run() error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestRun_RotationRoundTrip(t *testing.T) {
	spec := geometry.RotationSpec{
		{Angle: 0.9, Plane: geometry.PlaneXW},
		{Angle: -0.4, Plane: geometry.PlaneYW},
		{Angle: 2.2, Plane: geometry.PlaneXY},
	}
	roundTrip := append(append(geometry.RotationSpec{}, spec...), spec.Inverse()...)

	points := []geometry.Point3{{0.2, 0.4, -0.6}, {1, -1, 0.5}}
	cfg := Config{
		Cells:     geometry.AllCells,
		Rotations: roundTrip,
		Params:    Params{WScale: 1, CamDistance: 0, Projection: geometry.Orthographic},
	}

	result, err := Run([]MeshInput{{Name: "m", Points: points}}, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, c := range result.Cells {
		embedded := geometry.Embed(points, c.Label)
		for i, p := range c.Points {
			for k := 0; k < 3; k++ {
				if math.Abs(p[k]-embedded[i][k]) > 1e-12 {
					t.Fatalf("%s vertex %d = %v, want %v", c.Name(), i, p, embedded[i])
				}
			}
		}
	}
}

func TestRun_NoMeshesOrCells(t *testing.T) {
	result, err := Run(nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Cells) != 0 || result.Err() != nil {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Params.WScale != 2.5 || cfg.Params.CamDistance != 4 || cfg.Params.Projection != geometry.FishEye {
		t.Errorf("Params = %+v", cfg.Params)
	}
	for _, l := range cfg.Cells {
		if l == geometry.CellWPlus {
			t.Error("W+ should not be selected by default")
		}
	}
	if len(cfg.Cells) != 7 {
		t.Errorf("got %d default cells, want 7", len(cfg.Cells))
	}
}
