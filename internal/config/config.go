package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/models"
	"github.com/philipparndt/tesseractise/internal/tesseract"
)

// MaxAngleDegrees bounds a rotation entry in either direction
const MaxAngleDegrees = 360.0

// Defaults for a new rotation entry
const (
	DefaultRotationPlane = "X-W"
	DefaultRotationAngle = 45.0
)

// Defaults for the build plate layout
const (
	DefaultSpacing  = 10.0
	DefaultMaxWidth = 256.0
)

// Settings is a validated job, ready to run
type Settings struct {
	Inputs      []string
	Output      string
	KeepSources bool
	Tesseract   tesseract.Config
	Layout      geometry.Layout
	Spacing     float64
	MaxWidth    float64
}

// DefaultSettings returns settings with the default tesseract parameters and no files
func DefaultSettings() *Settings {
	return &Settings{
		Tesseract: tesseract.DefaultConfig(),
		Spacing:   DefaultSpacing,
		MaxWidth:  DefaultMaxWidth,
	}
}

// Loader handles loading and validating YAML job files
type Loader struct{}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a YAML job file. Relative inputs and output resolve against the job file's directory.
func (l *Loader) Load(configPath string) (*models.Job, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	job, err := l.Parse(data)
	if err != nil {
		return nil, err
	}

	if err := l.Validate(job); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	absConfigDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path of config directory: %w", err)
	}
	for i, in := range job.Inputs {
		if !filepath.IsAbs(in) {
			job.Inputs[i] = filepath.Join(absConfigDir, in)
		}
	}
	if !filepath.IsAbs(job.Output) {
		job.Output = filepath.Join(absConfigDir, job.Output)
	}

	return job, nil
}

// Parse decodes YAML job data; unknown keys are rejected
func (l *Loader) Parse(data []byte) (*models.Job, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var job models.Job
	if err := dec.Decode(&job); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &job, nil
}

// Validate checks that a job is complete and every value is in range
func (l *Loader) Validate(job *models.Job) error {
	if job.Output == "" {
		return invalid("output file must be specified")
	}
	if len(job.Inputs) == 0 {
		return invalid("at least one input must be defined")
	}
	for i, in := range job.Inputs {
		if in == "" {
			return invalid("input %d: file is required", i+1)
		}
	}
	_, err := l.Build(job)
	return err
}

// Build converts a job into run settings, filling in defaults for missing values
func (l *Loader) Build(job *models.Job) (*Settings, error) {
	s := DefaultSettings()
	s.Inputs = append([]string(nil), job.Inputs...)
	s.Output = job.Output
	s.KeepSources = job.KeepSources
	s.Tesseract.Workers = job.Workers

	if job.Projection != "" {
		p, err := geometry.ParseProjection(job.Projection)
		if err != nil {
			return nil, err
		}
		s.Tesseract.Params.Projection = p
	}
	if job.WScale != nil {
		s.Tesseract.Params.WScale = *job.WScale
	}
	if job.CamDistance != nil {
		s.Tesseract.Params.CamDistance = *job.CamDistance
	}

	if job.Cells != nil {
		cells, err := ParseCells(job.Cells)
		if err != nil {
			return nil, err
		}
		s.Tesseract.Cells = cells
	}

	for i, r := range job.Rotations {
		step, err := rotationEntry(r)
		if err != nil {
			return nil, fmt.Errorf("rotation %d: %w", i+1, err)
		}
		s.Tesseract.Rotations = append(s.Tesseract.Rotations, step)
	}

	if job.Layout != nil {
		layout, err := geometry.ParseLayout(job.Layout.Mode)
		if err != nil {
			return nil, err
		}
		s.Layout = layout
		if job.Layout.Spacing != 0 {
			s.Spacing = job.Layout.Spacing
		}
		if job.Layout.MaxWidth != 0 {
			s.MaxWidth = job.Layout.MaxWidth
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the tesseract parameters and layout settings
func (s *Settings) Validate() error {
	if err := s.Tesseract.Validate(); err != nil {
		return err
	}
	if s.Spacing < 0 || math.IsNaN(s.Spacing) || math.IsInf(s.Spacing, 0) {
		return invalid("layout spacing must be a finite value >= 0, got %v", s.Spacing)
	}
	if s.MaxWidth <= 0 || math.IsNaN(s.MaxWidth) || math.IsInf(s.MaxWidth, 0) {
		return invalid("layout max width must be a finite value > 0, got %v", s.MaxWidth)
	}
	return nil
}

func rotationEntry(r models.JobRotation) (geometry.RotationStep, error) {
	plane := r.Plane
	if plane == "" {
		plane = DefaultRotationPlane
	}
	angle := DefaultRotationAngle
	if r.Angle != nil {
		angle = *r.Angle
	}
	return NewRotation(plane, angle)
}

// NewRotation builds a rotation step from a plane name and an angle in degrees
func NewRotation(plane string, degrees float64) (geometry.RotationStep, error) {
	p, err := geometry.ParsePlane(plane)
	if err != nil {
		return geometry.RotationStep{}, err
	}
	if math.IsNaN(degrees) || math.Abs(degrees) > MaxAngleDegrees {
		return geometry.RotationStep{}, invalid("angle must be within ±%g degrees, got %v", MaxAngleDegrees, degrees)
	}
	step := geometry.RotationStep{Angle: degrees * math.Pi / 180, Plane: p}
	if err := step.Validate(); err != nil {
		return geometry.RotationStep{}, err
	}
	return step, nil
}

// ParseCells parses cell labels, rejecting duplicates
func ParseCells(labels []string) ([]geometry.CellLabel, error) {
	seen := make(map[geometry.CellLabel]bool)
	cells := make([]geometry.CellLabel, 0, len(labels))
	for _, s := range labels {
		l, err := geometry.ParseCellLabel(s)
		if err != nil {
			return nil, err
		}
		if seen[l] {
			return nil, invalid("cell %s listed twice", l)
		}
		seen[l] = true
		cells = append(cells, l)
	}
	return cells, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", tesseract.ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
