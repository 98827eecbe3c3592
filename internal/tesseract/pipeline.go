// Package tesseract projects 3D meshes onto the cells of a tesseract, rotates them in 4D and projects
// the result back to 3D.
package tesseract

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/philipparndt/tesseractise/internal/geometry"
)

// Params are the scalar settings shared by every (mesh, cell) pair of a run
type Params struct {
	// WScale exaggerates the W component after rotation
	WScale float64
	// CamDistance places the 4D camera at W = CamDistance
	CamDistance float64
	Projection  geometry.Projection
}

// Validate rejects negative or non-finite scalars and unknown projections
func (p Params) Validate() error {
	if math.IsNaN(p.WScale) || math.IsInf(p.WScale, 0) || p.WScale < 0 {
		return fmt.Errorf("%w: w scale must be a finite value >= 0, got %v", ErrInvalidConfiguration, p.WScale)
	}
	if math.IsNaN(p.CamDistance) || math.IsInf(p.CamDistance, 0) {
		return fmt.Errorf("%w: camera distance must be finite, got %v", ErrInvalidConfiguration, p.CamDistance)
	}
	switch p.Projection {
	case geometry.Perspective, geometry.FishEye, geometry.Orthographic:
	default:
		return fmt.Errorf("%w: unknown projection %d", ErrInvalidConfiguration, int(p.Projection))
	}
	return nil
}

// Config is everything a run reads; it is not modified once a run starts
type Config struct {
	Cells     []geometry.CellLabel
	Rotations geometry.RotationSpec
	Params    Params
	// Workers bounds concurrent pairs; 0 means GOMAXPROCS
	Workers int
}

// DefaultCells is the cell selection the tool starts with: every cell except W+,
// which is turned inside out at the default camera distance
var DefaultCells = []geometry.CellLabel{
	geometry.CellWMinus,
	geometry.CellZMinus, geometry.CellZPlus,
	geometry.CellYMinus, geometry.CellYPlus,
	geometry.CellXMinus, geometry.CellXPlus,
}

// DefaultConfig returns the default parameters: W scale 2.5, camera at W=4, fish-eye projection
func DefaultConfig() Config {
	return Config{
		Cells: append([]geometry.CellLabel(nil), DefaultCells...),
		Params: Params{
			WScale:      2.5,
			CamDistance: 4.0,
			Projection:  geometry.FishEye,
		},
	}
}

// Validate checks cells, rotations and parameters
func (c Config) Validate() error {
	for _, l := range c.Cells {
		if !l.Valid() {
			return fmt.Errorf("%w: unknown cell %v", ErrInvalidConfiguration, l)
		}
	}
	if err := c.Rotations.Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfiguration, c.Workers)
	}
	return c.Params.Validate()
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// MeshInput is a named, ordered vertex array
type MeshInput struct {
	Name   string
	Points []geometry.Point3
}

// CellOutput is the result of one (mesh, cell) pair. Points[i] is the image of input vertex i.
type CellOutput struct {
	MeshIndex int
	Mesh      string
	Label     geometry.CellLabel
	Points    []geometry.Point3
	Err       error
}

// Name is the name given to the generated object, "<mesh>.<label>"
func (c *CellOutput) Name() string {
	return CellName(c.Mesh, c.Label)
}

// CellName formats the generated object name for a mesh and cell
func CellName(mesh string, label geometry.CellLabel) string {
	return mesh + "." + label.String()
}

// Result holds one CellOutput per (mesh, cell) pair, meshes outer, cells inner, in input order
type Result struct {
	Cells []CellOutput
}

// Lookup finds the output for a mesh index and cell
func (r *Result) Lookup(meshIndex int, label geometry.CellLabel) (*CellOutput, bool) {
	for i := range r.Cells {
		if r.Cells[i].MeshIndex == meshIndex && r.Cells[i].Label == label {
			return &r.Cells[i], true
		}
	}
	return nil, false
}

// Failures returns the errors of all failed pairs, in pair order
func (r *Result) Failures() []error {
	var errs []error
	for _, c := range r.Cells {
		if c.Err != nil {
			errs = append(errs, c.Err)
		}
	}
	return errs
}

// Err joins every pair failure, or returns nil if all pairs succeeded
func (r *Result) Err() error {
	return errors.Join(r.Failures()...)
}

// Run projects every mesh onto every requested cell. A failing pair never stops the others; its error
// is recorded on its CellOutput. Run only returns an error for an invalid configuration.
func Run(meshes []MeshInput, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	jobs := make([]job, 0, len(meshes)*len(cfg.Cells))
	for mi, m := range meshes {
		for _, label := range cfg.Cells {
			jobs = append(jobs, job{meshIndex: mi, mesh: m.Name, label: label, points: m.Points})
		}
	}

	newPipeline(cfg).runAll(jobs)

	result := &Result{Cells: make([]CellOutput, len(jobs))}
	for i, j := range jobs {
		result.Cells[i] = CellOutput{
			MeshIndex: j.meshIndex,
			Mesh:      j.mesh,
			Label:     j.label,
			Points:    j.out,
			Err:       j.err,
		}
	}
	return result, nil
}

type job struct {
	meshIndex int
	mesh      string
	label     geometry.CellLabel
	points    []geometry.Point3

	out []geometry.Point3
	err error
}

// pipeline carries the read-only state shared by every pair of a run
type pipeline struct {
	transform geometry.Mat4
	params    Params
	workers   int
}

func newPipeline(cfg Config) *pipeline {
	return &pipeline{
		transform: geometry.ComposeRotations(cfg.Rotations),
		params:    cfg.Params,
		workers:   cfg.workers(),
	}
}

// runAll processes jobs concurrently; each job owns its slot so ordering is untouched
func (p *pipeline) runAll(jobs []job) {
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := range jobs {
		j := &jobs[i]
		g.Go(func() error {
			j.out, j.err = p.project(j.points, j.label)
			if j.err != nil {
				j.err = newPairError(j.mesh, j.label, j.err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// project runs embed, rotate, W scale, camera offset and projection for one vertex array
func (p *pipeline) project(points []geometry.Point3, label geometry.CellLabel) ([]geometry.Point3, error) {
	v := geometry.Embed(points, label)
	geometry.Rotate(v, p.transform)
	for i := range v {
		v[i][3] *= p.params.WScale
		v[i][3] -= p.params.CamDistance
	}
	return geometry.Project(p.params.Projection, v)
}
