package sim

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"rdt-toolkit/rdt"
)

// SimulationConfig is the full tunable surface for a standalone run of
// the core, intended to be provided by a YAML file and consumed by
// cmd/rdtsim, in the same "struct with yaml tags" shape as
// distribution-distribution/configuration.Configuration.
type SimulationConfig struct {
	// WindowSize is rdt.Config.WindowSize, shared by both endpoints.
	WindowSize int `yaml:"windowSize"`

	// Timeout is the fixed retransmission interval used unless Adaptive
	// is set.
	Timeout time.Duration `yaml:"timeout"`
	// Adaptive switches the sender to sim.AdaptiveTimeout instead of
	// rdt.FixedTimeout.
	Adaptive bool `yaml:"adaptive"`
	// MinTimeout floors the adaptive timeout; ignored when Adaptive is
	// false.
	MinTimeout time.Duration `yaml:"minTimeout"`

	// Forward is the fault-injection profile for the sender-to-receiver
	// (data) direction of the channel.
	Forward ChannelConfig `yaml:"forward"`
	// Backward is the fault-injection profile for the receiver-to-sender
	// (ack) direction of the channel.
	Backward ChannelConfig `yaml:"backward"`
}

// DefaultSimulationConfig returns the recommended tunables, with no
// fault injection on either direction.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		WindowSize: rdt.DefaultWindowSize,
		Timeout:    rdt.DefaultTimeout,
		MinTimeout: defaultMinTimeout,
	}
}

// LoadSimulationConfig reads and parses a YAML simulation config from
// path, filling in defaults for any zero-valued field.
func LoadSimulationConfig(path string) (SimulationConfig, error) {
	cfg := DefaultSimulationConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return sanitizeSimulationConfig(cfg), nil
}

func sanitizeSimulationConfig(cfg SimulationConfig) SimulationConfig {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = rdt.DefaultWindowSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = rdt.DefaultTimeout
	}
	if cfg.MinTimeout <= 0 {
		cfg.MinTimeout = defaultMinTimeout
	}
	return cfg
}
