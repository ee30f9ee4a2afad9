// Package config provides configuration loading and management for voxeltomo.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"voxeltomo/pkg/design"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Design parameters control the horizontal pixel designers
	Design struct {
		// DLatitudeDeg is the angular latitude spacing in degrees.
		// Leave 0 when DLatitudeKm is given instead.
		DLatitudeDeg float64 `yaml:"dLatitudeDeg"`

		// DLatitudeKm is the metric latitude spacing in km
		DLatitudeKm float64 `yaml:"dLatitudeKm"`

		// LatitudeOffset shifts the colatitude band origin in degrees
		LatitudeOffset float64 `yaml:"latitudeOffset"`

		// DLongitudeDeg is the angular longitude spacing in degrees.
		// Leave 0 when DLongitudeKm is given instead.
		DLongitudeDeg float64 `yaml:"dLongitudeDeg"`

		// DLongitudeKm is the metric longitude spacing in km, converted
		// per latitude row
		DLongitudeKm float64 `yaml:"dLongitudeKm"`

		// LongitudeOffset shifts the longitude slot origin in degrees
		LongitudeOffset float64 `yaml:"longitudeOffset"`

		// CrossDateLine enables the +360 longitude shift across the
		// 180 degree seam
		CrossDateLine bool `yaml:"crossDateLine"`

		// LowerRadius and UpperRadius bound the target shell in km
		LowerRadius float64 `yaml:"lowerRadius"`
		UpperRadius float64 `yaml:"upperRadius"`

		// Phases are the seismic phases handed to the ray tracer
		Phases []string `yaml:"phases"`

		// Structure names the earth structure model used for ray tracing
		Structure string `yaml:"structure"`

		// Manual holds the explicit ranges for the manual designer
		Manual struct {
			LowerLatitude  float64 `yaml:"lowerLatitude"`
			UpperLatitude  float64 `yaml:"upperLatitude"`
			LowerLongitude float64 `yaml:"lowerLongitude"`
			UpperLongitude float64 `yaml:"upperLongitude"`
		} `yaml:"manual"`
	} `yaml:"design"`

	// Params parameters control parameter-file handling
	Params struct {
		// StrictDuplicates turns duplicate unknown parameters from a
		// logged warning into a fatal error
		StrictDuplicates bool `yaml:"strictDuplicates"`

		// Variables are the variable types assigned per voxel when
		// building an unknown-parameter file
		Variables []string `yaml:"variables"`
	} `yaml:"params"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default design parameters: 5 degree tiles over the D'' region
	cfg.Design.DLatitudeDeg = 5
	cfg.Design.DLongitudeDeg = 5
	cfg.Design.LowerRadius = 3480
	cfg.Design.UpperRadius = 3880
	cfg.Design.Phases = []string{"ScS"}
	cfg.Design.Structure = "prem"
	cfg.Design.Manual.LowerLatitude = -10
	cfg.Design.Manual.UpperLatitude = 10
	cfg.Design.Manual.LowerLongitude = -20
	cfg.Design.Manual.UpperLongitude = 20

	// Set default parameter handling
	cfg.Params.StrictDuplicates = false
	cfg.Params.Variables = []string{"MU"}

	// Set default output parameters
	cfg.Output.Verbose = true

	return cfg
}

// DesignSettings converts the design section into designer settings.
func (c *Config) DesignSettings() design.Settings {
	return design.Settings{
		DLatitudeDeg:    c.Design.DLatitudeDeg,
		DLatitudeKm:     c.Design.DLatitudeKm,
		LatitudeOffset:  c.Design.LatitudeOffset,
		DLongitudeDeg:   c.Design.DLongitudeDeg,
		DLongitudeKm:    c.Design.DLongitudeKm,
		LongitudeOffset: c.Design.LongitudeOffset,
		CrossDateLine:   c.Design.CrossDateLine,
		LowerRadius:     c.Design.LowerRadius,
		UpperRadius:     c.Design.UpperRadius,
		Phases:          c.Design.Phases,
		Structure:       c.Design.Structure,
	}
}

// ManualRanges converts the manual section into designer ranges.
func (c *Config) ManualRanges() design.Ranges {
	return design.Ranges{
		LowerLatitude:  c.Design.Manual.LowerLatitude,
		UpperLatitude:  c.Design.Manual.UpperLatitude,
		LowerLongitude: c.Design.Manual.LowerLongitude,
		UpperLongitude: c.Design.Manual.UpperLongitude,
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
