package renderer

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Command is the OpenSCAD executable
var Command = "openscad"

// IsSCAD reports whether path is an OpenSCAD source file
func IsSCAD(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".scad")
}

// RenderSCAD renders a SCAD file to the mesh file outputFile; OpenSCAD picks the format by extension
func RenderSCAD(workDir, scadFile, outputFile string, log io.Writer) error {
	absScadFile := scadFile
	if !filepath.IsAbs(scadFile) {
		absScadFile = filepath.Join(workDir, scadFile)
	}

	cmd := exec.Command(Command, "-o", outputFile, absScadFile)
	cmd.Dir = workDir
	cmd.Stdout = log
	cmd.Stderr = log

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to render %s: %w", scadFile, err)
	}
	return nil
}

// Rendered maps every input to the file that should be loaded for it
type Rendered struct {
	Paths   []string
	tempDir string
}

// RenderInputs renders every .scad input to STL in a temporary directory. Other inputs pass through.
func RenderInputs(workDir string, inputs []string, log io.Writer) (*Rendered, error) {
	r := &Rendered{Paths: make([]string, len(inputs))}
	for i, in := range inputs {
		if !IsSCAD(in) {
			r.Paths[i] = in
			continue
		}
		if r.tempDir == "" {
			dir, err := os.MkdirTemp("", "tesseractise-scad-")
			if err != nil {
				return nil, fmt.Errorf("failed to create temp dir: %w", err)
			}
			r.tempDir = dir
		}
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out := filepath.Join(r.tempDir, fmt.Sprintf("%d_%s.stl", i, base))
		if err := RenderSCAD(workDir, in, out, log); err != nil {
			r.Cleanup()
			return nil, err
		}
		r.Paths[i] = out
	}
	return r, nil
}

// Count returns how many inputs were rendered
func (r *Rendered) Count(inputs []string) int {
	n := 0
	for i := range inputs {
		if r.Paths[i] != inputs[i] {
			n++
		}
	}
	return n
}

// Cleanup removes the temporary render directory
func (r *Rendered) Cleanup() {
	if r.tempDir != "" {
		os.RemoveAll(r.tempDir)
		r.tempDir = ""
	}
}
