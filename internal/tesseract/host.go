package tesseract

import (
	"errors"
	"fmt"

	"github.com/philipparndt/tesseractise/internal/geometry"
)

// Object is a candidate supplied by the host; only mesh-like objects are processed
type Object interface {
	Name() string
	IsMesh() bool
}

// Kinded objects describe what they are when they are skipped
type Kinded interface {
	KindName() string
}

// Mesh is a writable mesh handle owned by the host
type Mesh interface {
	Object
	SetName(name string)
	Vertices() []geometry.Point3
	// SetVertices overwrites vertex positions in order; len(points) must match Vertices()
	SetVertices(points []geometry.Point3) error
}

// Host duplicates objects into fresh meshes and disposes of meshes that could not be filled
type Host interface {
	DuplicateAsMesh(obj Object) (Mesh, error)
	Discard(m Mesh)
}

// Report summarizes a host-driven run
type Report struct {
	// Created lists generated object names in creation order
	Created []string
	Skipped []*SkippedInput
	// Failures holds one *PairError per failed pair
	Failures []error
}

// Err joins every pair failure, or returns nil
func (r *Report) Err() error {
	return errors.Join(r.Failures...)
}

// Tesseractise generates one cell copy per mesh object and requested cell through the host.
// Duplication and write-back happen serially in input order; projection runs on the worker pool.
// Non-mesh objects are skipped and reported, and a failing pair is discarded without affecting others.
func Tesseractise(host Host, objects []Object, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := &Report{}
	var jobs []job
	var handles []Mesh

	for oi, obj := range objects {
		if !obj.IsMesh() {
			skipped := &SkippedInput{Name: obj.Name()}
			if k, ok := obj.(Kinded); ok {
				skipped.Kind = k.KindName()
			}
			report.Skipped = append(report.Skipped, skipped)
			continue
		}

		for _, label := range cfg.Cells {
			name := CellName(obj.Name(), label)
			m, err := host.DuplicateAsMesh(obj)
			if err != nil {
				report.Failures = append(report.Failures, &PairError{
					Mesh:  obj.Name(),
					Label: label,
					Code:  CodeHostFailure,
					Err:   fmt.Errorf("duplicate: %w", err),
				})
				continue
			}
			m.SetName(name)
			jobs = append(jobs, job{meshIndex: oi, mesh: obj.Name(), label: label, points: m.Vertices()})
			handles = append(handles, m)
		}
	}

	newPipeline(cfg).runAll(jobs)

	for i, j := range jobs {
		m := handles[i]
		if j.err != nil {
			host.Discard(m)
			report.Failures = append(report.Failures, j.err)
			continue
		}
		if len(j.out) != len(j.points) {
			host.Discard(m)
			report.Failures = append(report.Failures, newPairError(j.mesh, j.label,
				fmt.Errorf("%w: %d in, %d out", ErrVertexCountMismatch, len(j.points), len(j.out))))
			continue
		}
		if err := m.SetVertices(j.out); err != nil {
			host.Discard(m)
			report.Failures = append(report.Failures, &PairError{
				Mesh:  j.mesh,
				Label: j.label,
				Code:  CodeHostFailure,
				Err:   fmt.Errorf("write vertices: %w", err),
			})
			continue
		}
		report.Created = append(report.Created, m.Name())
	}

	return report, nil
}
