package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/tesseractise/internal/geometry"
)

// TestAllExamplesLoadSuccessfully loads every example job and checks its inputs exist
func TestAllExamplesLoadSuccessfully(t *testing.T) {
	examples := []struct {
		name string
		file string
	}{
		{"simple job", "../../example/simple-job.yaml"},
		{"rotated job", "../../example/rotated-job.yaml"},
		{"layout job", "../../example/layout-job.yaml"},
	}

	loader := NewLoader()
	for _, tt := range examples {
		t.Run(tt.name, func(t *testing.T) {
			absPath, err := filepath.Abs(tt.file)
			if err != nil {
				t.Fatalf("Failed to get absolute path: %v", err)
			}

			job, err := loader.Load(absPath)
			if err != nil {
				t.Fatalf("Failed to load %s: %v", tt.name, err)
			}
			for _, in := range job.Inputs {
				if _, err := os.Stat(in); err != nil {
					t.Errorf("input %s missing: %v", in, err)
				}
			}
			if _, err := loader.Build(job); err != nil {
				t.Errorf("Build failed: %v", err)
			}
		})
	}
}

func TestRotatedExample(t *testing.T) {
	loader := NewLoader()
	absPath, _ := filepath.Abs("../../example/rotated-job.yaml")

	job, err := loader.Load(absPath)
	if err != nil {
		t.Fatalf("Failed to load rotated-job.yaml: %v", err)
	}
	s, err := loader.Build(job)
	if err != nil {
		t.Fatal(err)
	}

	if s.Tesseract.Params.Projection != geometry.Perspective {
		t.Errorf("Expected perspective projection, got %v", s.Tesseract.Params.Projection)
	}
	if len(s.Tesseract.Rotations) != 3 {
		t.Errorf("Expected 3 rotations, got %d", len(s.Tesseract.Rotations))
	}
	if !s.KeepSources || s.Tesseract.Workers != 4 {
		t.Errorf("Expected keep_sources and 4 workers, got %v/%d", s.KeepSources, s.Tesseract.Workers)
	}
	if filepath.Base(s.Output) != "rotated.glb" {
		t.Errorf("Unexpected output %s", s.Output)
	}
}

func TestLayoutExample(t *testing.T) {
	loader := NewLoader()
	absPath, _ := filepath.Abs("../../example/layout-job.yaml")

	job, err := loader.Load(absPath)
	if err != nil {
		t.Fatalf("Failed to load layout-job.yaml: %v", err)
	}
	s, err := loader.Build(job)
	if err != nil {
		t.Fatal(err)
	}
	if s.Layout != geometry.LayoutShelf || s.Spacing != 0.5 || s.MaxWidth != 6 {
		t.Errorf("Unexpected layout %v spacing %v max width %v", s.Layout, s.Spacing, s.MaxWidth)
	}
}
