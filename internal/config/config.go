// Optional YAML configuration for the front ends
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dermoscopy-preprocessing/internal/contrast"
	"dermoscopy-preprocessing/internal/core"
	"dermoscopy-preprocessing/internal/edges"
	"dermoscopy-preprocessing/internal/illumination"
	"dermoscopy-preprocessing/internal/kernels"
)

// Config is the top-level configuration file.
type Config struct {
	Log      LogConfig `yaml:"log"`
	Defaults Defaults  `yaml:"defaults"`
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Defaults overrides the built-in parameter defaults of the routines.
type Defaults struct {
	ClipPercent   float64 `yaml:"clip_percent"`
	CLAHEClip     float64 `yaml:"clahe_clip_limit"`
	CLAHETileGrid int     `yaml:"clahe_tile_grid"`
	MulLogFactor  float64 `yaml:"mul_log_factor"`
	UnsharpAmount float64 `yaml:"unsharp_amount"`
	Kernel        string  `yaml:"kernel"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Defaults: Defaults{
			ClipPercent:   contrast.DefaultClipPercent,
			CLAHEClip:     contrast.DefaultCLAHEClipLimit,
			CLAHETileGrid: contrast.DefaultCLAHETileGrid,
			MulLogFactor:  illumination.DefaultFactor,
			UnsharpAmount: edges.DefaultUnsharpAmount,
			Kernel:        "circle9",
		},
	}
}

// Load reads path over the built-in configuration. An empty path or a
// missing file yields Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field against the range the routines accept.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q", core.ErrInvalidParameter, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", core.ErrInvalidParameter, c.Log.Format)
	}

	d := c.Defaults
	if d.ClipPercent < 0 || d.ClipPercent > contrast.MaxClipPercent {
		return fmt.Errorf("%w: defaults.clip_percent %v not in [0, %v]", core.ErrInvalidParameter, d.ClipPercent, contrast.MaxClipPercent)
	}
	if d.CLAHEClip <= 0 {
		return fmt.Errorf("%w: defaults.clahe_clip_limit must be positive", core.ErrInvalidParameter)
	}
	if d.CLAHETileGrid < 1 {
		return fmt.Errorf("%w: defaults.clahe_tile_grid must be at least 1", core.ErrInvalidParameter)
	}
	if d.MulLogFactor <= 0 {
		return fmt.Errorf("%w: defaults.mul_log_factor must be positive", core.ErrInvalidParameter)
	}
	if d.UnsharpAmount < 0 {
		return fmt.Errorf("%w: defaults.unsharp_amount must not be negative", core.ErrInvalidParameter)
	}
	if _, ok := kernels.ByName(d.Kernel); !ok {
		return fmt.Errorf("%w: defaults.kernel %q", core.ErrInvalidParameter, d.Kernel)
	}
	return nil
}

// Overrides returns the parameter defaults for the named routine, keyed the
// way the algorithm registry expects. Routines without configurable
// defaults yield an empty map.
func (c Config) Overrides(algorithm string) map[string]interface{} {
	d := c.Defaults
	switch algorithm {
	case "auto_brightness_contrast":
		return map[string]interface{}{"clip_percent": d.ClipPercent}
	case "clahe":
		return map[string]interface{}{
			"clip_limit": d.CLAHEClip,
			"tile_grid":  float64(d.CLAHETileGrid),
		}
	case "mul_log_brightness":
		return map[string]interface{}{"factor": d.MulLogFactor}
	case "unsharp":
		return map[string]interface{}{"amount": d.UnsharpAmount}
	case "morphological_contrast", "reverse_morphological_contrast":
		return map[string]interface{}{"kernel": d.Kernel}
	}
	return map[string]interface{}{}
}
