// Package config loads mudra configuration from a TOML file with defaults
// for anything not set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains directory configuration.
type Paths struct {
	DatasetDir string `toml:"dataset_dir"`
	OutputDir  string `toml:"output_dir"`
	CatalogDB  string `toml:"catalog_db"`
}

// Detector contains configuration for the holistic landmark service.
type Detector struct {
	ScriptPath       string  `toml:"script_path"`
	PythonPath       string  `toml:"python_path"`
	MinDetectionConf float64 `toml:"min_detection_confidence"`
	MinTrackingConf  float64 `toml:"min_tracking_confidence"`
	ModelComplexity  int     `toml:"model_complexity"`
}

// Processing contains pipeline options.
type Processing struct {
	Workers   int  `toml:"workers"`
	DebugDump bool `toml:"debug_dump"`
	Plots     bool `toml:"plots"`
}

// Config is the full configuration tree.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Detector   Detector   `toml:"detector"`
	Processing Processing `toml:"processing"`
}

// Default returns the configuration used when no file or flag overrides it.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return Config{
		Paths: Paths{
			CatalogDB: filepath.Join(home, ".mudra", "catalog.db"),
		},
		Detector: Detector{
			MinDetectionConf: 0.5,
			MinTrackingConf:  0.5,
			ModelComplexity:  1,
		},
		Processing: Processing{
			Workers: 1,
			Plots:   true,
		},
	}
}

// Load reads the config file at path over the defaults. A missing file is
// not an error: defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for a preprocessing run.
func (c *Config) Validate() error {
	if c.Paths.DatasetDir == "" {
		return errors.New("paths.dataset_dir is required")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir is required")
	}
	if c.Detector.MinDetectionConf < 0 || c.Detector.MinDetectionConf > 1 {
		return fmt.Errorf("detector.min_detection_confidence %g out of range [0, 1]", c.Detector.MinDetectionConf)
	}
	if c.Detector.MinTrackingConf < 0 || c.Detector.MinTrackingConf > 1 {
		return fmt.Errorf("detector.min_tracking_confidence %g out of range [0, 1]", c.Detector.MinTrackingConf)
	}
	if c.Detector.ModelComplexity < 0 || c.Detector.ModelComplexity > 2 {
		return fmt.Errorf("detector.model_complexity %d out of range [0, 2]", c.Detector.ModelComplexity)
	}
	if c.Processing.Workers < 1 {
		return fmt.Errorf("processing.workers must be at least 1, got %d", c.Processing.Workers)
	}
	return nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mudra.toml"
	}
	return filepath.Join(home, ".mudra", "config.toml")
}
