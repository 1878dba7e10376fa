package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer"
	"gopkg.in/yaml.v3"
)

// sessionConfig is the optional YAML session file. Zero values keep the defaults.
type sessionConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	PixelRatio    float32 `yaml:"pixel_ratio"`
	MaxPixelRatio float32 `yaml:"max_pixel_ratio"`
	Backend       string  `yaml:"backend"`
	Frames        int     `yaml:"frames"`
	FPS           int     `yaml:"fps"`
	Out           string  `yaml:"out"`
	SnapshotEvery int     `yaml:"snapshot_every"`
	LogLevel      string  `yaml:"log_level"`
	Development   bool    `yaml:"development"`
	Profile       bool    `yaml:"profile"`
}

var errInvalidConfig = errors.New("invalid session config")

func defaultConfig() sessionConfig {
	return sessionConfig{
		Width:         800,
		Height:        600,
		PixelRatio:    1,
		MaxPixelRatio: 2,
		Backend:       renderer.BackendTypeWGPU.String(),
		FPS:           60,
		LogLevel:      "info",
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (sessionConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c sessionConfig) backend() (renderer.BackendType, error) {
	return renderer.ParseBackendType(c.Backend)
}

func (c sessionConfig) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", errInvalidConfig, c.Width, c.Height)
	case c.PixelRatio <= 0:
		return fmt.Errorf("%w: pixel ratio %v", errInvalidConfig, c.PixelRatio)
	case c.MaxPixelRatio < 0:
		return fmt.Errorf("%w: max pixel ratio %v", errInvalidConfig, c.MaxPixelRatio)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", errInvalidConfig, c.FPS)
	case c.Frames < 0:
		return fmt.Errorf("%w: frames %d", errInvalidConfig, c.Frames)
	case c.SnapshotEvery < 0:
		return fmt.Errorf("%w: snapshot_every %d", errInvalidConfig, c.SnapshotEvery)
	}
	b, err := c.backend()
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidConfig, err)
	}
	if b == renderer.BackendTypeSoftware && c.Frames == 0 {
		return fmt.Errorf("%w: headless runs need a frame count", errInvalidConfig)
	}
	return nil
}
