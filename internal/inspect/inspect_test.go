package inspect

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/meshio"
	"github.com/philipparndt/tesseractise/internal/scene"
	"github.com/philipparndt/tesseractise/internal/ui"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := ui.Output
	ui.Output = &buf
	t.Cleanup(func() { ui.Output = old })
	return &buf
}

func TestParseTransformOffset(t *testing.T) {
	tests := []struct {
		transform string
		x, y, z   float64
		ok        bool
	}{
		{"1 0 0 0 1 0 0 0 1 10 20 30", 10, 20, 30, true},
		{"1 0 0 0 1 0 0 0 1 0 0 0", 0, 0, 0, true},
		{"1 0 0", 0, 0, 0, false},
		{"1 0 0 0 1 0 0 0 1 a 0 0", 0, 0, 0, false},
	}
	for _, tt := range tests {
		x, y, z, ok := ParseTransformOffset(tt.transform)
		if ok != tt.ok || x != tt.x || y != tt.y || z != tt.z {
			t.Errorf("ParseTransformOffset(%q) = %v %v %v %v", tt.transform, x, y, z, ok)
		}
	}
}

func TestInspectMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cells.3mf")
	doc := scene.NewDocument("cells")
	doc.Add(scene.NewMesh("Tri.X+", []geometry.Point3{{0, 0, 0}, {2, 0, 0}, {0, 3, 0}}, [][3]int{{0, 1, 2}}))
	if err := meshio.Save(doc, path, true); err != nil {
		t.Fatal(err)
	}

	buf := capture(t)
	if err := NewInspector().Inspect(path); err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Tri.X+", "mesh", "2.00 x 3.00 x 0.00", "Build Plate Items", "tesseractise"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectJob(t *testing.T) {
	buf := capture(t)
	if err := NewInspector().Inspect("../../example/rotated-job.yaml"); err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"perspective", "Y-W", "rotated.glb", "Resolved settings"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectMissingFile(t *testing.T) {
	if err := NewInspector().Inspect(filepath.Join(t.TempDir(), "nope.stl")); err == nil {
		t.Error("expected error for missing file")
	}
}
