// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration for a run: the simulation parameters plus
// the settings of the collaborators around it (index strategy, spawning,
// telemetry, display, presets).
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Index      IndexConfig      `yaml:"index"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Presets    PresetsConfig    `yaml:"presets"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// Sort strategies for the neighbor index.
const (
	StrategyComparison = "comparison"
	StrategyBitonic    = "bitonic"
)

// IndexConfig selects how the neighbor index is built.
type IndexConfig struct {
	Strategy          string `yaml:"strategy"`           // "comparison" or "bitonic"
	Workers           int    `yaml:"workers"`            // 0 = GOMAXPROCS, 1 = serial
	ParallelThreshold int    `yaml:"parallel_threshold"` // below this many elements, run inline
}

// Spawn layouts.
const (
	LayoutUniform = "uniform"
	LayoutSimplex = "simplex"
	LayoutPerlin  = "perlin"
)

// SpawnConfig controls initial particle placement.
type SpawnConfig struct {
	Layout         string  `yaml:"layout"`          // "uniform", "simplex" or "perlin"
	NoiseScale     float64 `yaml:"noise_scale"`     // noise frequency in world-widths
	NoiseThreshold float64 `yaml:"noise_threshold"` // keep samples whose noise exceeds this
}

// TelemetryConfig holds stats and perf collection parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // ticks between stats records
	PerfWindow  int `yaml:"perf_window"`  // ticks in the rolling perf average
}

// PresetsConfig locates saved simulation presets.
type PresetsConfig struct {
	Dir string `yaml:"dir"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the embedded default configuration with derived values filled in.
func Defaults() (*Config, error) {
	return Load("")
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Index.Strategy == "" {
		c.Index.Strategy = StrategyComparison
	}
	if c.Spawn.Layout == "" {
		c.Spawn.Layout = LayoutUniform
	}
	if c.Telemetry.StatsWindow <= 0 {
		c.Telemetry.StatsWindow = 60
	}
	if c.Telemetry.PerfWindow <= 0 {
		c.Telemetry.PerfWindow = 60
	}

	sim := &c.Simulation
	// An empty matrix in YAML means "generate one from the seed".
	if len(sim.AttractionMatrix) == 0 && sim.TypeCount > 0 {
		sim.AttractionMatrix = RandomMatrix(sim.TypeCount, NewRand(sim.Seed))
	}
	sim.Derive()
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	switch c.Index.Strategy {
	case StrategyComparison, StrategyBitonic:
	default:
		return fmt.Errorf("%w: unknown index strategy %q", ErrConfigInvalid, c.Index.Strategy)
	}
	switch c.Spawn.Layout {
	case LayoutUniform, LayoutSimplex, LayoutPerlin:
	default:
		return fmt.Errorf("%w: unknown spawn layout %q", ErrConfigInvalid, c.Spawn.Layout)
	}
	if c.Index.Workers < 0 {
		return fmt.Errorf("%w: index.workers must be >= 0", ErrConfigInvalid)
	}
	return c.Simulation.Validate()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
