package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/alecthomas/kong"

	"github.com/philipparndt/tesseractise/internal/buildplan"
	"github.com/philipparndt/tesseractise/internal/config"
	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/inspect"
	"github.com/philipparndt/tesseractise/internal/ui"
	"github.com/philipparndt/tesseractise/version"
)

type CLI struct {
	Run        *RunCmd        `cmd:"" help:"Project meshes onto the cells of a tesseract (supports YAML jobs, STL, 3MF, OBJ, glTF, SCAD)"`
	Inspect    *InspectCmd    `cmd:"" help:"Inspect a mesh or job file and show its contents"`
	Completion *CompletionCmd `cmd:"" help:"Generate shell completion script"`
	Version    *VersionCmd    `cmd:"" help:"Show version information"`
}

type RunCmd struct {
	Output      string   `help:"Output file path; the extension picks the format" short:"o"`
	Cells       []string `help:"Cells to generate, e.g. W-,X+ (default: every cell but W+)" sep:","`
	Rotate      []string `help:"Add a 4D rotation PLANE[:DEGREES], e.g. X-W:45; 'default' adds X-W 45. Repeatable." short:"r"`
	WScale      *float64 `help:"W exaggeration after rotation (default 2.5)" name:"w-scale"`
	CamDistance *float64 `help:"4D camera distance along W (default 4)" name:"cam-distance"`
	Projection  string   `help:"Projection: fish-eye, perspective or orthographic"`
	KeepSources bool     `help:"Also write the source objects" name:"keep-sources"`
	Workers     *int     `help:"Concurrent (mesh, cell) pairs; 0 uses every CPU"`
	Layout      string   `help:"Arrange generated objects on the build plate: none, grid or shelf"`
	Spacing     *float64 `help:"Gap between arranged objects"`
	Open        bool     `help:"Open the result file in the default application"`
	Progress    string   `help:"Progress output: auto or plain" enum:"auto,plain" default:"auto"`
	Files       []string `arg:"" help:"A YAML job file, or mesh and SCAD files"`
}

// Help adds additional help text with examples
func (c *RunCmd) Help() string {
	return renderRunHelp()
}

// openFile opens a file in the default application for the current platform
func openFile(filepath string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", filepath)
	case "linux":
		cmd = exec.Command("xdg-open", filepath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", filepath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

func (c *RunCmd) applyProgress() {
	ui.SetVerbose(c.Progress == "plain")
}

// apply writes every flag that was given into s
func (c *RunCmd) apply(s *config.Settings) error {
	if len(c.Cells) > 0 {
		cells, err := config.ParseCells(c.Cells)
		if err != nil {
			return err
		}
		s.Tesseract.Cells = cells
	}
	if len(c.Rotate) > 0 {
		list := config.RotationList{Steps: s.Tesseract.Rotations}
		for _, r := range c.Rotate {
			if err := list.AddFlag(r); err != nil {
				return err
			}
		}
		s.Tesseract.Rotations = list.Steps
	}
	if c.WScale != nil {
		s.Tesseract.Params.WScale = *c.WScale
	}
	if c.CamDistance != nil {
		s.Tesseract.Params.CamDistance = *c.CamDistance
	}
	if c.Projection != "" {
		p, err := geometry.ParseProjection(c.Projection)
		if err != nil {
			return err
		}
		s.Tesseract.Params.Projection = p
	}
	if c.KeepSources {
		s.KeepSources = true
	}
	if c.Workers != nil {
		s.Tesseract.Workers = *c.Workers
	}
	if c.Layout != "" {
		layout, err := geometry.ParseLayout(c.Layout)
		if err != nil {
			return err
		}
		s.Layout = layout
	}
	if c.Spacing != nil {
		s.Spacing = *c.Spacing
	}
	return s.Validate()
}

func (c *RunCmd) Run() error {
	c.applyProgress()

	plan, err := buildplan.NewPlanner().CreatePlan(buildplan.Request{
		Inputs:    c.Files,
		Output:    c.Output,
		Customize: c.apply,
	})
	if err != nil {
		return fmt.Errorf("failed to create build plan: %w", err)
	}

	err = plan.Execute()
	if err != nil && !errors.Is(err, buildplan.ErrPairsFailed) {
		return err
	}

	// Open the file in default application if requested
	if c.Open && plan.Context.Settings != nil {
		if err := openFile(plan.Context.Settings.Output); err != nil {
			ui.PrintError("Failed to open file: " + err.Error())
		}
	}

	// failed pairs were already reported as a table
	if err != nil {
		os.Exit(1)
	}
	return nil
}

type InspectCmd struct {
	File string `arg:"" help:"Mesh (.stl, .3mf, .obj, .gltf, .glb) or job (.yaml) file to inspect"`
}

func (c *InspectCmd) Run() error {
	inspector := inspect.NewInspector()
	return inspector.Inspect(c.File)
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := version.Get()
	fmt.Println(info.String())
	return nil
}

// Parse parses command line arguments and executes the appropriate command
func Parse() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("tesseractise"),
		kong.Description("Project 3D meshes onto the cells of a rotated tesseract"),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}
