package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/philipparndt/tesseractise/internal/geometry"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "TESSERACTISE_"

// EnvOverrides are the parameters that can be set from the environment; unset variables stay nil
type EnvOverrides struct {
	WScale      *float64 `env:"W_SCALE"`
	CamDistance *float64 `env:"CAM_DISTANCE"`
	Projection  *string  `env:"PROJECTION"`
	Workers     *int     `env:"WORKERS"`
}

// ParseEnv reads the TESSERACTISE_ variables
func ParseEnv() (*EnvOverrides, error) {
	var o EnvOverrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &o, nil
}

// Apply writes every set override into s and revalidates it
func (o *EnvOverrides) Apply(s *Settings) error {
	if o.WScale != nil {
		s.Tesseract.Params.WScale = *o.WScale
	}
	if o.CamDistance != nil {
		s.Tesseract.Params.CamDistance = *o.CamDistance
	}
	if o.Projection != nil {
		p, err := geometry.ParseProjection(*o.Projection)
		if err != nil {
			return fmt.Errorf("%sPROJECTION: %w", EnvPrefix, err)
		}
		s.Tesseract.Params.Projection = p
	}
	if o.Workers != nil {
		s.Tesseract.Workers = *o.Workers
	}
	return s.Validate()
}

// ApplyEnv parses the environment and applies it to s
func ApplyEnv(s *Settings) error {
	o, err := ParseEnv()
	if err != nil {
		return err
	}
	return o.Apply(s)
}
