// Package config loads the simulator's tuning parameters from JSON.
// Fields omitted from the file keep their defaults, so partial configs
// are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SimConfig holds the tunable parameters of the capacitance pipeline.
// Pointer fields distinguish "not set" from an explicit zero.
type SimConfig struct {
	// Estimator params
	MaxRayDistanceMM     *float64 `json:"max_ray_distance_mm,omitempty"`
	RelativePermittivity *float64 `json:"relative_permittivity,omitempty"`

	// Generated-mesh params (used when no models directory is supplied)
	SphereRings   *int `json:"sphere_rings,omitempty"`
	SphereSectors *int `json:"sphere_sectors,omitempty"`
	PlateSegments *int `json:"plate_segments,omitempty"`

	// Driver params
	ProgressInterval *int `json:"progress_interval,omitempty"`
}

// EmptySimConfig returns a SimConfig with all fields unset.
func EmptySimConfig() *SimConfig {
	return &SimConfig{}
}

// LoadSimConfig loads a SimConfig from a JSON file. The file must have a
// .json extension and stay under the max file size.
func LoadSimConfig(path string) (*SimConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySimConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are physically usable.
func (c *SimConfig) Validate() error {
	if c.MaxRayDistanceMM != nil && *c.MaxRayDistanceMM <= 0 {
		return fmt.Errorf("max_ray_distance_mm must be positive, got %f", *c.MaxRayDistanceMM)
	}
	if c.RelativePermittivity != nil && *c.RelativePermittivity <= 0 {
		return fmt.Errorf("relative_permittivity must be positive, got %f", *c.RelativePermittivity)
	}
	if c.SphereRings != nil && *c.SphereRings < 3 {
		return fmt.Errorf("sphere_rings must be at least 3, got %d", *c.SphereRings)
	}
	if c.SphereSectors != nil && *c.SphereSectors < 3 {
		return fmt.Errorf("sphere_sectors must be at least 3, got %d", *c.SphereSectors)
	}
	if c.PlateSegments != nil && *c.PlateSegments < 1 {
		return fmt.Errorf("plate_segments must be at least 1, got %d", *c.PlateSegments)
	}
	if c.ProgressInterval != nil && *c.ProgressInterval < 1 {
		return fmt.Errorf("progress_interval must be at least 1, got %d", *c.ProgressInterval)
	}
	return nil
}

// GetMaxRayDistanceMM returns the near-field ray cutoff in millimeters.
func (c *SimConfig) GetMaxRayDistanceMM() float64 {
	if c.MaxRayDistanceMM == nil {
		return 2.0 // default near-field cutoff
	}
	return *c.MaxRayDistanceMM
}

// GetRelativePermittivity returns the dielectric's relative permittivity.
func (c *SimConfig) GetRelativePermittivity() float64 {
	if c.RelativePermittivity == nil {
		return 42.28 // glycerin
	}
	return *c.RelativePermittivity
}

// GetSphereRings returns the latitude resolution of generated spheres.
func (c *SimConfig) GetSphereRings() int {
	if c.SphereRings == nil {
		return 16
	}
	return *c.SphereRings
}

// GetSphereSectors returns the longitude resolution of generated spheres.
func (c *SimConfig) GetSphereSectors() int {
	if c.SphereSectors == nil {
		return 32
	}
	return *c.SphereSectors
}

// GetPlateSegments returns the per-edge subdivision of generated plates.
func (c *SimConfig) GetPlateSegments() int {
	if c.PlateSegments == nil {
		return 8
	}
	return *c.PlateSegments
}

// GetProgressInterval returns how many rows pass between progress logs.
func (c *SimConfig) GetProgressInterval() int {
	if c.ProgressInterval == nil {
		return 50
	}
	return *c.ProgressInterval
}
