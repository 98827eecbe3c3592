package buildplan

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/tesseractise/internal/config"
	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/meshio"
	"github.com/philipparndt/tesseractise/internal/tesseract"
	"github.com/philipparndt/tesseractise/internal/ui"
)

func quiet(t *testing.T) {
	t.Helper()
	old := ui.Output
	ui.Output = io.Discard
	t.Cleanup(func() { ui.Output = old })
}

func copyCube(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile("../../example/cube.obj")
	if err != nil {
		t.Fatalf("read example: %v", err)
	}
	path := filepath.Join(dir, "cube.obj")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCreatePlan(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		first   string
		wantErr bool
	}{
		{"job file", Request{Inputs: []string{"job.yaml"}}, "Load job: job.yaml", false},
		{"mesh files", Request{Inputs: []string{"a.stl", "b.obj"}, Output: "out.3mf"}, "Prepare 2 input files", false},
		{"no inputs", Request{}, "", true},
		{"mesh files without output", Request{Inputs: []string{"a.stl"}}, "", true},
		{"job file mixed with meshes", Request{Inputs: []string{"job.yaml", "a.stl"}, Output: "o.3mf"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewPlanner().CreatePlan(tt.req)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreatePlan failed: %v", err)
			}
			if got := plan.Steps[0].Name(); got != tt.first {
				t.Errorf("first step = %q, want %q", got, tt.first)
			}
			if len(plan.Steps) != 8 {
				t.Errorf("expected 8 steps, got %d", len(plan.Steps))
			}
		})
	}
}

func TestExecuteJobFile(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	copyCube(t, dir)
	job := "inputs: [cube.obj]\noutput: cube-tesseract.3mf\n"
	jobPath := filepath.Join(dir, "job.yaml")
	if err := os.WriteFile(jobPath, []byte(job), 0644); err != nil {
		t.Fatal(err)
	}

	plan, err := NewPlanner().CreatePlan(Request{Inputs: []string{jobPath}})
	if err != nil {
		t.Fatal(err)
	}
	if err := plan.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	doc, err := meshio.Load(filepath.Join(dir, "cube-tesseract.3mf"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(doc.Objects) != 7 {
		t.Fatalf("expected 7 cells, got %d", len(doc.Objects))
	}
	if doc.Objects[0].Name() != "Cube.W-" || doc.Objects[6].Name() != "Cube.X+" {
		t.Errorf("unexpected names %s .. %s", doc.Objects[0].Name(), doc.Objects[6].Name())
	}
	if len(doc.Objects[0].Vertices) != 8 || len(doc.Objects[0].Triangles) != 12 {
		t.Errorf("cell lost geometry: %d vertices, %d triangles", len(doc.Objects[0].Vertices), len(doc.Objects[0].Triangles))
	}
}

func TestExecuteCustomizeAndLayout(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	cube := copyCube(t, dir)
	out := filepath.Join(dir, "cells.obj")

	plan, err := NewPlanner().CreatePlan(Request{
		Inputs: []string{cube},
		Output: out,
		Customize: func(s *config.Settings) error {
			cells, err := config.ParseCells([]string{"X-", "X+"})
			if err != nil {
				return err
			}
			s.Tesseract.Cells = cells
			s.Tesseract.Params.Projection = geometry.Orthographic
			s.KeepSources = true
			s.Layout = geometry.LayoutGrid
			s.Spacing = 1
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := plan.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	doc, err := meshio.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Objects) != 3 {
		t.Fatalf("expected source plus 2 cells, got %d", len(doc.Objects))
	}
	if doc.Objects[0].Name() != "Cube" {
		t.Errorf("first object = %s, want the source", doc.Objects[0].Name())
	}

	a, _ := geometry.CalculateBoundingBox(doc.Objects[1].Vertices)
	b, _ := geometry.CalculateBoundingBox(doc.Objects[2].Vertices)
	if a.MaxX > b.MinX && a.MaxY > b.MinY {
		t.Errorf("arranged cells overlap: %v and %v", a, b)
	}
}

func TestExecuteReportsFailedPairs(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	cube := copyCube(t, dir)
	out := filepath.Join(dir, "cells.stl")

	plan, err := NewPlanner().CreatePlan(Request{
		Inputs: []string{cube},
		Output: out,
		Customize: func(s *config.Settings) error {
			// W+ lands exactly on the camera plane
			s.Tesseract.Cells = []geometry.CellLabel{geometry.CellWMinus, geometry.CellWPlus}
			s.Tesseract.Params = tesseract.Params{WScale: 1, CamDistance: 1, Projection: geometry.Perspective}
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = plan.Execute()
	if !errors.Is(err, ErrPairsFailed) || !errors.Is(err, geometry.ErrDegenerateProjection) {
		t.Fatalf("expected failed pairs, got %v", err)
	}
	if got := plan.Context.Report.Created; len(got) != 1 || got[0] != "Cube.W-" {
		t.Errorf("created = %v", got)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output should still be written: %v", err)
	}
}

func TestExecuteStopsOnMissingInput(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	plan, err := NewPlanner().CreatePlan(Request{
		Inputs: []string{filepath.Join(dir, "missing.stl")},
		Output: filepath.Join(dir, "out.3mf"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := plan.Execute(); err == nil {
		t.Error("expected error for missing input")
	}
	if _, err := os.Stat(filepath.Join(dir, "out.3mf")); !os.IsNotExist(err) {
		t.Error("no output should be written")
	}
}
