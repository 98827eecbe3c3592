package models

// Job is the YAML job file
type Job struct {
	Inputs      []string      `yaml:"inputs"`
	Output      string        `yaml:"output"`
	Projection  string        `yaml:"projection,omitempty"`
	WScale      *float64      `yaml:"w_scale,omitempty"`
	CamDistance *float64      `yaml:"cam_distance,omitempty"`
	Cells       []string      `yaml:"cells,omitempty"`
	Rotations   []JobRotation `yaml:"rotations,omitempty"`
	KeepSources bool          `yaml:"keep_sources,omitempty"`
	Workers     int           `yaml:"workers,omitempty"`
	Layout      *JobLayout    `yaml:"layout,omitempty"`
}

// JobRotation is one rotation entry; angle is in degrees
type JobRotation struct {
	Plane string   `yaml:"plane,omitempty"`
	Angle *float64 `yaml:"angle,omitempty"`
}

// JobLayout spreads the generated objects over the build plate
type JobLayout struct {
	Mode     string  `yaml:"mode"`
	Spacing  float64 `yaml:"spacing,omitempty"`
	MaxWidth float64 `yaml:"max_width,omitempty"`
}
