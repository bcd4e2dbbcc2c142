package config

import (
	"fmt"
	"strings"
)

const (
	SimulationModeAll    = "all"
	SimulationModeSample = "sample"
	SimulationModeForce  = "force"

	defaultShards           = 1
	defaultProgressInterval = 100
	maxShards               = 64
)

// SimulationConfig controls how the simulate command enumerates and runs
// option combinations.
type SimulationConfig struct {
	// Mode decides what happens above the case threshold: all refuses to
	// run, sample runs a random subset and force runs everything.
	Mode       string `yaml:"mode,omitempty" mapstructure:"mode"`
	Shards     int    `yaml:"shards,omitempty" mapstructure:"shards"`
	Quantities []int  `yaml:"quantities,omitempty" mapstructure:"quantities"`
	// Seed fixes the sampling source; zero seeds from the clock.
	Seed int64 `yaml:"seed,omitempty" mapstructure:"seed"`
	// ProgressInterval only throttles progress output of the CLI.
	ProgressInterval int `yaml:"progressInterval,omitempty" mapstructure:"progressInterval"`
}

// CanonicalSimulationMode returns the canonical identifier for a mode.
func CanonicalSimulationMode(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return SimulationModeAll
	}
	switch strings.ToLower(trimmed) {
	case "all", "full":
		return SimulationModeAll
	case "sample", "sampled", "sampling":
		return SimulationModeSample
	case "force", "forcerun", "force_run", "force-run":
		return SimulationModeForce
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (s *SimulationConfig) Normalize() {
	if s == nil {
		return
	}
	s.Mode = CanonicalSimulationMode(s.Mode)
	if s.Shards <= 0 {
		s.Shards = defaultShards
	}
	if s.ProgressInterval <= 0 {
		s.ProgressInterval = defaultProgressInterval
	}
}

// Validate returns an error when the simulation configuration is unsupported.
func (s *SimulationConfig) Validate() error {
	if s == nil {
		return fmt.Errorf("simulation configuration cannot be nil")
	}

	s.Normalize()

	switch s.Mode {
	case SimulationModeAll, SimulationModeSample, SimulationModeForce:
		// supported modes
	default:
		return fmt.Errorf("simulation mode %q is not supported", s.Mode)
	}
	if s.Shards > maxShards {
		return fmt.Errorf("simulation shards %d exceeds the maximum of %d", s.Shards, maxShards)
	}
	for _, qty := range s.Quantities {
		if qty <= 0 {
			return fmt.Errorf("simulation quantity %d must be positive", qty)
		}
	}
	return nil
}

// Sample reports whether an oversized run should be sampled.
func (s SimulationConfig) Sample() bool { return s.Mode == SimulationModeSample }

// ForceRun reports whether an oversized run should run in full.
func (s SimulationConfig) ForceRun() bool { return s.Mode == SimulationModeForce }
