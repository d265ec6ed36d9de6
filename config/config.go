// Package config loads volfilter settings from YAML files.
//
// A configuration selects the device backend and holds the parameters of
// the three filters. Missing keys keep their defaults, so a file only needs
// to name what it changes:
//
//	backend: software
//	workers: 4
//	gaussian:
//	  fwhm: [2, 2, 4]
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/volfilter"
	"github.com/gogpu/volfilter/filter"
)

// ErrInvalid is returned by Validate for out-of-range parameters.
var ErrInvalid = errors.New("config: invalid value")

// Config is the YAML document layout.
type Config struct {
	// Backend names the device backend. Empty means volfilter.DefaultBackend.
	Backend string `yaml:"backend"`

	// Workers is the CPU parallelism of the software backend.
	// Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`

	Box struct {
		KernelLength [3]int `yaml:"kernelLength"`
		Separable    bool   `yaml:"separable"`
	} `yaml:"box"`

	Gaussian struct {
		KernelLength   [3]int     `yaml:"kernelLength"`
		FWHM           [3]float64 `yaml:"fwhm"`
		RotationAngles [3]float64 `yaml:"rotationAngles"`
		Separable      bool       `yaml:"separable"`
	} `yaml:"gaussian"`

	Diffusion struct {
		Cl          [3]float64 `yaml:"cl"`
		K           float64    `yaml:"k"`
		RMS         float64    `yaml:"rms"`
		TimeStep    float64    `yaml:"timeStep"`
		Accuracy    int        `yaml:"accuracy"`
		NoiseSlices int        `yaml:"noiseSlices"`
	} `yaml:"diffusion"`
}

// DefaultConfig returns a configuration holding the filter defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	b := filter.NewBox()
	cfg.Box.KernelLength = b.KernelLength
	cfg.Box.Separable = b.Separable

	g := filter.NewGaussian()
	cfg.Gaussian.KernelLength = g.KernelLength
	cfg.Gaussian.FWHM = g.FWHM
	cfg.Gaussian.RotationAngles = g.RotationAngles
	cfg.Gaussian.Separable = g.Separable

	d := filter.NewDiffusion()
	cfg.Diffusion.Cl = d.Cl
	cfg.Diffusion.K = d.K
	cfg.Diffusion.RMS = d.RMS
	cfg.Diffusion.TimeStep = d.TimeStep
	cfg.Diffusion.Accuracy = d.Accuracy
	cfg.Diffusion.NoiseSlices = d.NoiseSlices

	return cfg
}

// LoadConfig reads a YAML file on top of DefaultConfig.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML, creating the parent directory if needed.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// CreateDefaultConfigFile writes DefaultConfig to configPath.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// Validate rejects parameters no filter can run with.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Workers)
	}
	for a := 0; a < 3; a++ {
		if c.Gaussian.FWHM[a] < 0 {
			return fmt.Errorf("%w: gaussian.fwhm[%d] = %g", ErrInvalid, a, c.Gaussian.FWHM[a])
		}
	}
	if c.Diffusion.Accuracy < 0 {
		return fmt.Errorf("%w: diffusion.accuracy %d", ErrInvalid, c.Diffusion.Accuracy)
	}
	if c.Diffusion.NoiseSlices < 1 {
		return fmt.Errorf("%w: diffusion.noiseSlices %d", ErrInvalid, c.Diffusion.NoiseSlices)
	}
	return nil
}

// NewContext creates a Context on the configured backend.
func (c *Config) NewContext(opts ...volfilter.ContextOption) *volfilter.Context {
	base := make([]volfilter.ContextOption, 0, len(opts)+2)
	if c.Backend != "" {
		base = append(base, volfilter.WithBackend(c.Backend))
	}
	if c.Workers > 0 {
		base = append(base, volfilter.WithWorkers(c.Workers))
	}
	return volfilter.NewContext(append(base, opts...)...)
}

// BoxFilter returns a Box filter with the configured parameters.
func (c *Config) BoxFilter() *filter.Box {
	return &filter.Box{
		KernelLength: c.Box.KernelLength,
		Separable:    c.Box.Separable,
	}
}

// GaussianFilter returns a Gaussian filter with the configured parameters.
func (c *Config) GaussianFilter() *filter.Gaussian {
	return &filter.Gaussian{
		KernelLength:   c.Gaussian.KernelLength,
		FWHM:           c.Gaussian.FWHM,
		RotationAngles: c.Gaussian.RotationAngles,
		Separable:      c.Gaussian.Separable,
	}
}

// DiffusionFilter returns a Diffusion filter with the configured parameters.
func (c *Config) DiffusionFilter() *filter.Diffusion {
	return &filter.Diffusion{
		Cl:          c.Diffusion.Cl,
		K:           c.Diffusion.K,
		RMS:         c.Diffusion.RMS,
		TimeStep:    c.Diffusion.TimeStep,
		Accuracy:    c.Diffusion.Accuracy,
		NoiseSlices: c.Diffusion.NoiseSlices,
	}
}
