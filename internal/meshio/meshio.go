// Package meshio loads and saves mesh documents, choosing the format by file extension.
package meshio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipparndt/tesseractise/internal/gltfio"
	"github.com/philipparndt/tesseractise/internal/scene"
	"github.com/philipparndt/tesseractise/internal/stl"
	"github.com/philipparndt/tesseractise/internal/threemf"
	"github.com/philipparndt/tesseractise/internal/wavefront"
)

// Format is a supported mesh file format
type Format string

const (
	FormatSTL     Format = "stl"
	Format3MF     Format = "3mf"
	FormatOBJ     Format = "obj"
	FormatGLTF    Format = "gltf"
	FormatGLB     Format = "glb"
	FormatUnknown Format = ""
)

// Extensions lists every extension Load and Save understand
var Extensions = []string{".stl", ".3mf", ".obj", ".gltf", ".glb"}

// FormatOf returns the format for a path's extension
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return FormatSTL
	case ".3mf":
		return Format3MF
	case ".obj":
		return FormatOBJ
	case ".gltf":
		return FormatGLTF
	case ".glb":
		return FormatGLB
	default:
		return FormatUnknown
	}
}

// Supported reports whether path has a mesh extension
func Supported(path string) bool {
	return FormatOf(path) != FormatUnknown
}

// LoadFile reads a single mesh file
func LoadFile(path string) (*scene.Document, error) {
	switch FormatOf(path) {
	case FormatSTL:
		return stl.NewParser().Parse(path)
	case Format3MF:
		return (&threemf.Reader{}).ReadDocument(path)
	case FormatOBJ:
		return wavefront.NewLoader().LoadFile(path)
	case FormatGLTF, FormatGLB:
		return gltfio.NewLoader().Load(path)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s (supported: %s)", path, strings.Join(Extensions, ", "))
	}
}

// Load reads every path and merges the objects into one document, in argument order
func Load(paths ...string) (*scene.Document, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files")
	}

	name := strings.TrimSuffix(filepath.Base(paths[0]), filepath.Ext(paths[0]))
	doc := scene.NewDocument(name)
	for _, p := range paths {
		d, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		doc.Append(d)
	}
	return doc, nil
}

// Save writes the document's output objects to path
func Save(doc *scene.Document, path string, keepSources bool) error {
	return SaveObjects(doc.Output(keepSources), path)
}

// SaveObjects writes objs to path in the format given by its extension
func SaveObjects(objs []*scene.Object, path string) error {
	switch FormatOf(path) {
	case FormatSTL:
		return stl.NewWriter(false).WriteFile(path, objs)
	case Format3MF:
		return (&threemf.Writer{}).Write(path, objs)
	case FormatOBJ:
		return (&wavefront.Writer{}).WriteFile(path, objs)
	case FormatGLTF, FormatGLB:
		return (&gltfio.Writer{}).WriteFile(path, objs)
	default:
		return fmt.Errorf("unsupported output format: %s (supported: %s)", path, strings.Join(Extensions, ", "))
	}
}
