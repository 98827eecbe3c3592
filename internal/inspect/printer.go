package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/philipparndt/tesseractise/internal/config"
	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/models"
	"github.com/philipparndt/tesseractise/internal/scene"
	"github.com/philipparndt/tesseractise/internal/ui"
)

// ModelPrinter handles printing objects, 3MF packages and settings
type ModelPrinter struct{}

// NewModelPrinter creates a new ModelPrinter
func NewModelPrinter() *ModelPrinter {
	return &ModelPrinter{}
}

// ParseTransformOffset extracts X, Y, Z offset from a transform matrix string
// Transform format: "m11 m12 m13 m21 m22 m23 m31 m32 m33 x y z"
func ParseTransformOffset(transform string) (x, y, z float64, ok bool) {
	parts := strings.Fields(transform)
	if len(parts) != 12 {
		return 0, 0, 0, false
	}

	x, errX := strconv.ParseFloat(parts[9], 64)
	y, errY := strconv.ParseFloat(parts[10], 64)
	z, errZ := strconv.ParseFloat(parts[11], 64)

	if errX != nil || errY != nil || errZ != nil {
		return 0, 0, 0, false
	}

	return x, y, z, true
}

func offsetInfo(transform string) string {
	if x, y, z, ok := ParseTransformOffset(transform); ok && (x != 0 || y != 0 || z != 0) {
		return fmt.Sprintf(" [offset: %.2f, %.2f, %.2f]", x, y, z)
	}
	return ""
}

// PrintObjects prints one table row per object with its size
func (p *ModelPrinter) PrintObjects(objs []*scene.Object) {
	if len(objs) == 0 {
		ui.PrintStep("No objects found")
		return
	}

	table := ui.NewTable(28, 9, 9, 9, 30)
	table.Header("Name", "Kind", "Vertices", "Triangles", "Size")
	for _, o := range objs {
		size := "-"
		if b, err := geometry.CalculateBoundingBox(o.Vertices); err == nil {
			size = fmt.Sprintf("%.2f x %.2f x %.2f", b.Width(), b.Height(), b.Depth())
		}
		table.Row(o.Name(), string(o.Kind), strconv.Itoa(len(o.Vertices)), strconv.Itoa(len(o.Triangles)), size)
	}
}

// PrintModel prints 3MF package details: unit, metadata, build items and component assemblies
func (p *ModelPrinter) PrintModel(model *models.Model) {
	if model.Unit != "" {
		ui.PrintKeyValue("Unit", model.Unit)
	}
	if model.Lang != "" {
		ui.PrintKeyValue("Language", model.Lang)
	}
	for _, meta := range model.Metadata {
		ui.PrintItem(fmt.Sprintf("%s: %s", meta.Name, meta.Value))
	}

	ui.PrintHeader("Build Plate Items")
	if len(model.Build.Items) == 0 {
		ui.PrintStep("No items on build plate")
	}
	for idx, item := range model.Build.Items {
		ui.PrintStep(fmt.Sprintf("%d. Object ID %s: %s%s", idx+1, item.ObjectID, objectName(model, item.ObjectID), offsetInfo(item.Transform)))
	}

	for _, obj := range model.Resources.Objects {
		if obj.Components == nil || len(obj.Components.Component) == 0 {
			continue
		}
		ui.PrintStep(fmt.Sprintf("• %s (ID: %s) - %d part(s)", displayName(obj.Name), obj.ID, len(obj.Components.Component)))
		for _, comp := range obj.Components.Component {
			ui.PrintStep(fmt.Sprintf("  - %s (ID: %s)%s", objectName(model, comp.ObjectID), comp.ObjectID, offsetInfo(comp.Transform)))
		}
	}
}

// PrintSettings prints what a job resolves to after defaults are applied
func (p *ModelPrinter) PrintSettings(s *config.Settings) {
	ui.PrintKeyValue("Output", s.Output)
	for _, in := range s.Inputs {
		ui.PrintItem(in)
	}

	cfg := s.Tesseract
	labels := make([]string, len(cfg.Cells))
	for i, l := range cfg.Cells {
		labels[i] = l.String()
	}
	ui.PrintCells(labels)
	ui.PrintKeyValue("Projection", cfg.Params.Projection.String())
	ui.PrintKeyValue("W scale", strconv.FormatFloat(cfg.Params.WScale, 'g', -1, 64))
	ui.PrintKeyValue("Camera distance", strconv.FormatFloat(cfg.Params.CamDistance, 'g', -1, 64))
	if len(cfg.Rotations) == 0 {
		ui.PrintKeyValue("Rotations", "none")
	}
	for i, r := range cfg.Rotations {
		ui.PrintItem(fmt.Sprintf("%d. %s", i+1, r))
	}
	ui.PrintKeyValue("Keep sources", strconv.FormatBool(s.KeepSources))
	if s.Layout != geometry.LayoutNone {
		ui.PrintKeyValue("Layout", fmt.Sprintf("%s (spacing %g, max width %g)", s.Layout, s.Spacing, s.MaxWidth))
	}
}

// objectName returns the name of an object by ID
func objectName(model *models.Model, objectID string) string {
	for _, obj := range model.Resources.Objects {
		if obj.ID == objectID {
			return displayName(obj.Name)
		}
	}
	return "(not found)"
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
