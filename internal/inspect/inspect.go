package inspect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/philipparndt/tesseractise/internal/config"
	"github.com/philipparndt/tesseractise/internal/meshio"
	"github.com/philipparndt/tesseractise/internal/threemf"
	"github.com/philipparndt/tesseractise/internal/ui"
)

// Inspector shows the contents of mesh and job files
type Inspector struct {
	printer *ModelPrinter
	// Style is the chroma style used for job files
	Style string
}

// NewInspector creates a new Inspector
func NewInspector() *Inspector {
	return &Inspector{printer: NewModelPrinter(), Style: "monokai"}
}

// Inspect reads and displays the contents of a mesh or job file
func (i *Inspector) Inspect(filename string) error {
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("file not found: %s", filename)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".yaml" || ext == ".yml" {
		return i.InspectJob(filename)
	}
	return i.InspectMesh(filename)
}

// InspectMesh prints every object of a mesh file
func (i *Inspector) InspectMesh(filename string) error {
	ui.PrintHeader(fmt.Sprintf("Inspecting: %s", filename))

	doc, err := meshio.LoadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", filename, err)
	}

	ui.PrintKeyValue("Format", string(meshio.FormatOf(filename)))
	ui.PrintKeyValue("Objects", fmt.Sprintf("%d (%d mesh%s)", len(doc.Objects), doc.MeshCount(), plural(doc.MeshCount(), "es")))

	// 3MF packages carry metadata and a build plate worth showing
	if meshio.FormatOf(filename) == meshio.Format3MF {
		model, err := (&threemf.Reader{}).Read(filename)
		if err != nil {
			return fmt.Errorf("error reading 3MF file: %w", err)
		}
		i.printer.PrintModel(model)
	}

	ui.PrintHeader("Objects")
	i.printer.PrintObjects(doc.Objects)
	return nil
}

// InspectJob prints a highlighted job file followed by the settings it resolves to
func (i *Inspector) InspectJob(filename string) error {
	ui.PrintHeader(fmt.Sprintf("Job: %s", filename))

	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}
	if err := quick.Highlight(ui.Output, string(src), "yaml", "terminal256", i.Style); err != nil {
		return fmt.Errorf("failed to highlight job file: %w", err)
	}

	loader := config.NewLoader()
	job, err := loader.Load(filename)
	if err != nil {
		return err
	}
	settings, err := loader.Build(job)
	if err != nil {
		return err
	}

	ui.PrintHeader("Resolved settings")
	i.printer.PrintSettings(settings)
	return nil
}

func plural(n int, suffix string) string {
	if n == 1 {
		return ""
	}
	return suffix
}
