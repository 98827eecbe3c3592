package preconditions

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/philipparndt/tesseractise/internal/meshio"
	"github.com/philipparndt/tesseractise/internal/renderer"
)

// Check verifies the external tools needed for inputs are available
func Check(inputs []string) error {
	checks := []struct {
		name   string
		needed bool
		fn     func() error
	}{
		{"OpenSCAD", needsOpenSCAD(inputs), checkOpenSCAD},
	}

	for _, check := range checks {
		if !check.needed {
			continue
		}
		if err := check.fn(); err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}
	}
	return nil
}

func needsOpenSCAD(inputs []string) bool {
	for _, in := range inputs {
		if renderer.IsSCAD(in) {
			return true
		}
	}
	return false
}

func checkOpenSCAD() error {
	if _, err := exec.LookPath(renderer.Command); err != nil {
		return fmt.Errorf("not found in PATH. Please install OpenSCAD from https://openscad.org/")
	}
	return nil
}

// ValidateFiles checks that every input exists, is a regular readable file and has a known extension
func ValidateFiles(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no input files")
	}
	for _, path := range paths {
		if !meshio.Supported(path) && !renderer.IsSCAD(path) {
			return fmt.Errorf("%s: unsupported input format (use .scad or one of %v)", path, meshio.Extensions)
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("cannot access file %s: %w", path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory, not a file", path)
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("cannot read file %s: %w", path, err)
		}
		file.Close()
	}
	return nil
}

// ValidateOutputPath checks the output format and that its directory exists and is writable
func ValidateOutputPath(path string) error {
	if path == "" {
		return fmt.Errorf("output file must be specified")
	}
	if !meshio.Supported(path) {
		return fmt.Errorf("%s: unsupported output format (use one of %v)", path, meshio.Extensions)
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory %s does not exist", dir)
	}
	if !info.IsDir() || info.Mode()&0200 == 0 {
		return fmt.Errorf("output directory %s is not writable", dir)
	}
	return nil
}
