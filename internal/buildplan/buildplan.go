package buildplan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/tesseractise/internal/config"
	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/meshio"
	"github.com/philipparndt/tesseractise/internal/preconditions"
	"github.com/philipparndt/tesseractise/internal/renderer"
	"github.com/philipparndt/tesseractise/internal/scene"
	"github.com/philipparndt/tesseractise/internal/tesseract"
	"github.com/philipparndt/tesseractise/internal/ui"
)

// ErrPairsFailed is returned by Execute when the output was written but some cells could not be generated
var ErrPairsFailed = errors.New("some cells could not be generated")

// Request describes one run from the command line
type Request struct {
	// Inputs is either a single YAML job file or mesh/SCAD files
	Inputs []string
	// Output is required unless Inputs is a job file
	Output string
	// Customize applies command line overrides after the job file or defaults are loaded
	Customize func(*config.Settings) error
}

// Context carries state between build steps
type Context struct {
	Settings *config.Settings
	WorkDir  string
	Rendered *renderer.Rendered
	Document *scene.Document
	Report   *tesseract.Report
	// Log receives OpenSCAD output
	Log io.Writer
}

// BuildStep represents a single step in the build plan
type BuildStep interface {
	Name() string
	Execute(ctx *Context) error
}

// BuildPlan contains all steps needed to turn the inputs into tesseract cells
type BuildPlan struct {
	Steps   []BuildStep
	Context *Context
}

// Planner creates build plans based on input files
type Planner struct{}

// NewPlanner creates a new build planner
func NewPlanner() *Planner {
	return &Planner{}
}

// IsJobFile reports whether path is a YAML job file
func IsJobFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// CreatePlan analyzes the request and creates an execution plan
func (p *Planner) CreatePlan(req Request) (*BuildPlan, error) {
	if len(req.Inputs) == 0 {
		return nil, fmt.Errorf("no input files specified")
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	plan := &BuildPlan{Context: &Context{WorkDir: wd, Log: io.Discard}}

	if len(req.Inputs) == 1 && IsJobFile(req.Inputs[0]) {
		plan.Steps = append(plan.Steps, &LoadJobStep{ConfigPath: req.Inputs[0], Output: req.Output, Customize: req.Customize})
	} else {
		for _, in := range req.Inputs {
			if IsJobFile(in) {
				return nil, fmt.Errorf("a job file must be the only input (got %d inputs)", len(req.Inputs))
			}
		}
		if req.Output == "" {
			return nil, fmt.Errorf("output file must be specified with -o")
		}
		plan.Steps = append(plan.Steps, &DefaultSettingsStep{Inputs: req.Inputs, Output: req.Output, Customize: req.Customize})
	}

	plan.Steps = append(plan.Steps,
		&CheckPreconditionsStep{},
		&ValidateFilesStep{},
		&RenderSCADStep{},
		&LoadMeshesStep{},
		&TesseractiseStep{},
		&ArrangeStep{},
		&WriteStep{},
	)
	return plan, nil
}

// Execute runs all steps in the build plan
func (bp *BuildPlan) Execute() error {
	ctx := bp.Context
	if ctx == nil {
		ctx = &Context{Log: io.Discard}
		bp.Context = ctx
	}
	defer func() {
		if ctx.Rendered != nil {
			ctx.Rendered.Cleanup()
		}
	}()

	verbose := ui.IsVerbose()
	if verbose {
		ctx.Log = os.Stdout
		ui.PrintTitle("tesseractise")
		ui.PrintHeader("Build Plan")
		for i, step := range bp.Steps {
			ui.PrintStep(fmt.Sprintf("%d. %s", i+1, step.Name()))
		}
		ui.PrintHeader("Executing")
	}

	for _, step := range bp.Steps {
		if verbose {
			ui.PrintStep(step.Name())
		}
		if err := step.Execute(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	ui.PrintSeparator()
	if ctx.Report != nil {
		printReport(ctx.Report)
	}
	if ctx.Settings != nil {
		ui.PrintKeyValue("Output file", ctx.Settings.Output)
	}
	if ctx.Report != nil && len(ctx.Report.Failures) > 0 {
		return fmt.Errorf("%w: %w", ErrPairsFailed, ctx.Report.Err())
	}
	return nil
}

func printReport(r *tesseract.Report) {
	for _, s := range r.Skipped {
		ui.PrintWarning(s.Error())
	}
	if len(r.Failures) == 0 {
		ui.PrintSuccess(fmt.Sprintf("Created %d cell%s", len(r.Created), ui.Pluralize(len(r.Created))))
		return
	}

	ui.PrintError(fmt.Sprintf("%d cell%s failed, %d created", len(r.Failures), ui.Pluralize(len(r.Failures)), len(r.Created)))
	table := ui.NewTable(24, 6, 24, 40)
	table.Header("Mesh", "Cell", "Code", "Error")
	for _, f := range r.Failures {
		var pe *tesseract.PairError
		if errors.As(f, &pe) {
			table.Row(pe.Mesh, pe.Label.String(), string(pe.Code), pe.Err.Error())
			continue
		}
		table.Row("", "", string(tesseract.CodeUnknown), f.Error())
	}
}

// LoadJobStep loads a YAML job file
type LoadJobStep struct {
	ConfigPath string
	// Output overrides the job's output when set
	Output    string
	Customize func(*config.Settings) error
}

func (s *LoadJobStep) Name() string {
	return fmt.Sprintf("Load job: %s", s.ConfigPath)
}

func (s *LoadJobStep) Execute(ctx *Context) error {
	loader := config.NewLoader()
	job, err := loader.Load(s.ConfigPath)
	if err != nil {
		return err
	}
	settings, err := loader.Build(job)
	if err != nil {
		return err
	}
	if s.Output != "" {
		settings.Output = s.Output
	}
	// SCAD includes resolve relative to the job file
	ctx.WorkDir = filepath.Dir(s.ConfigPath)
	return finishSettings(ctx, settings, s.Customize)
}

// DefaultSettingsStep builds settings for plain input files
type DefaultSettingsStep struct {
	Inputs    []string
	Output    string
	Customize func(*config.Settings) error
}

func (s *DefaultSettingsStep) Name() string {
	return fmt.Sprintf("Prepare %d input file%s", len(s.Inputs), ui.Pluralize(len(s.Inputs)))
}

func (s *DefaultSettingsStep) Execute(ctx *Context) error {
	settings := config.DefaultSettings()
	settings.Inputs = append([]string(nil), s.Inputs...)
	settings.Output = s.Output
	return finishSettings(ctx, settings, s.Customize)
}

// finishSettings applies command line then environment overrides
func finishSettings(ctx *Context, settings *config.Settings, customize func(*config.Settings) error) error {
	if customize != nil {
		if err := customize(settings); err != nil {
			return err
		}
	}
	if err := config.ApplyEnv(settings); err != nil {
		return err
	}
	ctx.Settings = settings
	return nil
}

// CheckPreconditionsStep verifies external tools are available
type CheckPreconditionsStep struct{}

func (s *CheckPreconditionsStep) Name() string {
	return "Check preconditions"
}

func (s *CheckPreconditionsStep) Execute(ctx *Context) error {
	return preconditions.Check(ctx.Settings.Inputs)
}

// ValidateFilesStep validates that inputs exist and the output can be written
type ValidateFilesStep struct{}

func (s *ValidateFilesStep) Name() string {
	return "Validate files"
}

func (s *ValidateFilesStep) Execute(ctx *Context) error {
	if err := preconditions.ValidateFiles(ctx.Settings.Inputs); err != nil {
		return err
	}
	return preconditions.ValidateOutputPath(ctx.Settings.Output)
}

// RenderSCADStep renders .scad inputs to STL
type RenderSCADStep struct{}

func (s *RenderSCADStep) Name() string {
	return "Render SCAD files"
}

func (s *RenderSCADStep) Execute(ctx *Context) error {
	rendered, err := renderer.RenderInputs(ctx.WorkDir, ctx.Settings.Inputs, ctx.Log)
	if err != nil {
		return err
	}
	ctx.Rendered = rendered
	if n := rendered.Count(ctx.Settings.Inputs); n > 0 && ui.IsVerbose() {
		ui.PrintItem(fmt.Sprintf("Rendered %d SCAD file%s", n, ui.Pluralize(n)))
	}
	return nil
}

// LoadMeshesStep loads every input into one document
type LoadMeshesStep struct{}

func (s *LoadMeshesStep) Name() string {
	return "Load meshes"
}

func (s *LoadMeshesStep) Execute(ctx *Context) error {
	paths := ctx.Settings.Inputs
	if ctx.Rendered != nil {
		paths = ctx.Rendered.Paths
	}
	doc, err := meshio.Load(paths...)
	if err != nil {
		return err
	}
	ctx.Document = doc
	if ui.IsVerbose() {
		for _, o := range doc.Objects {
			ui.PrintItem(fmt.Sprintf("%s (%s, %d vertices, %d triangles)", o.Name(), o.Kind, len(o.Vertices), len(o.Triangles)))
		}
	}
	return nil
}

// TesseractiseStep generates one object per mesh and cell
type TesseractiseStep struct{}

func (s *TesseractiseStep) Name() string {
	return "Tesseractise"
}

func (s *TesseractiseStep) Execute(ctx *Context) error {
	cfg := ctx.Settings.Tesseract
	if ui.IsVerbose() {
		labels := make([]string, len(cfg.Cells))
		for i, l := range cfg.Cells {
			labels[i] = l.String()
		}
		ui.PrintInfo(fmt.Sprintf("%d mesh object%s, %d cell%s each",
			ctx.Document.MeshCount(), ui.Pluralize(ctx.Document.MeshCount()), len(cfg.Cells), ui.Pluralize(len(cfg.Cells))))
		ui.PrintCells(labels)
		ui.PrintKeyValue("Projection", cfg.Params.Projection.String())
		ui.PrintKeyValue("W scale", fmt.Sprintf("%g", cfg.Params.WScale))
		ui.PrintKeyValue("Camera distance", fmt.Sprintf("%g", cfg.Params.CamDistance))
		for _, r := range cfg.Rotations {
			ui.PrintItem("Rotate " + r.String())
		}
	}

	report, err := tesseract.Tesseractise(ctx.Document, ctx.Document.Candidates(), cfg)
	if err != nil {
		return err
	}
	ctx.Report = report
	return nil
}

// ArrangeStep spreads the generated objects over the build plate
type ArrangeStep struct{}

func (s *ArrangeStep) Name() string {
	return "Arrange"
}

func (s *ArrangeStep) Execute(ctx *Context) error {
	settings := ctx.Settings
	if settings.Layout == geometry.LayoutNone || len(ctx.Document.Generated) == 0 {
		return nil
	}

	sets := make([][]geometry.Point3, len(ctx.Document.Generated))
	for i, o := range ctx.Document.Generated {
		sets[i] = o.Vertices
	}
	offsets, err := geometry.Arrange(settings.Layout, sets, settings.Spacing, settings.MaxWidth)
	if err != nil {
		return err
	}
	for i, o := range ctx.Document.Generated {
		geometry.Translate(o.Vertices, offsets[i])
	}
	if ui.IsVerbose() {
		ui.PrintItem(fmt.Sprintf("Arranged %d object%s (%s)", len(sets), ui.Pluralize(len(sets)), settings.Layout))
	}
	return nil
}

// WriteStep saves the output file
type WriteStep struct{}

func (s *WriteStep) Name() string {
	return "Write output"
}

func (s *WriteStep) Execute(ctx *Context) error {
	if len(ctx.Document.Output(ctx.Settings.KeepSources)) == 0 {
		return fmt.Errorf("nothing to write: no cells were generated")
	}
	return meshio.Save(ctx.Document, ctx.Settings.Output, ctx.Settings.KeepSources)
}
