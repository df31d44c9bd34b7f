package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultExercise = "verhulst"
	DefaultLogLevel = "info"
)

// Config is a run file. Zero Dt and TMax and an empty Integrator leave the
// exercise defaults in place.
type Config struct {
	Exercise   string             `yaml:"exercise"`
	Integrator string             `yaml:"integrator,omitempty"`
	Dt         float64            `yaml:"dt,omitempty"`
	TMax       float64            `yaml:"tmax,omitempty"`
	Params     map[string]float64 `yaml:"params,omitempty"`
	LogLevel   string             `yaml:"log_level,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Exercise: DefaultExercise,
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetParam sets one parameter, allocating the map on first use.
func (c *Config) SetParam(name string, v float64) {
	if c.Params == nil {
		c.Params = make(map[string]float64)
	}
	c.Params[name] = v
}

// ApplyPreset copies the preset's timing and parameters over c. Explicit
// parameters already set on c are replaced.
func (c *Config) ApplyPreset(p *Preset) {
	for k, v := range p.Params {
		c.SetParam(k, v)
	}
	if p.Dt != 0 {
		c.Dt = p.Dt
	}
	if p.TMax != 0 {
		c.TMax = p.TMax
	}
}

// Level maps LogLevel onto slog, falling back to info for unknown names.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
