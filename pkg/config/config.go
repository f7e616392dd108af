package config

import (
	"fmt"

	"github.com/colframe/colframe/pkg/errors"
)

// NaN padding policies accepted by FrameConfig.NaNPolicy.
const (
	NaNPolicyPad     = "pad"
	NaNPolicyDontPad = "dont_pad"
)

// Config is the top level configuration of a colframe process.
type Config struct {
	// Name identifies the process in logs and metrics
	Name string `yaml:"name" json:"name" mapstructure:"name"`

	// Frame controls table store behaviour
	Frame FrameConfig `yaml:"frame" json:"frame" mapstructure:"frame"`

	// Logging configures the zap logger
	Logging LoggingConfig `yaml:"logging" json:"logging" mapstructure:"logging"`

	// Metrics configures prometheus collection
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" mapstructure:"metrics"`

	// RandGen configures generated sample data
	RandGen RandGenConfig `yaml:"randgen" json:"randgen" mapstructure:"randgen"`

	// TopK configures the default bounded selector capacity
	TopK TopKConfig `yaml:"topk" json:"topk" mapstructure:"topk"`
}

// FrameConfig contains table store settings.
type FrameConfig struct {
	// NaNPolicy is applied by LoadData to columns shorter than the index (pad or dont_pad)
	NaNPolicy string `yaml:"nan_policy" json:"nan_policy" mapstructure:"nan_policy"`
	// IndexColumnName names the index field when a frame is exported
	IndexColumnName string `yaml:"index_column_name" json:"index_column_name" mapstructure:"index_column_name"`
}

// LoggingConfig mirrors logger.Config.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level" mapstructure:"level"`
	Encoding    string `yaml:"encoding" json:"encoding" mapstructure:"encoding"`
	Development bool   `yaml:"development" json:"development" mapstructure:"development"`
}

// MetricsConfig contains prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Namespace string `yaml:"namespace" json:"namespace" mapstructure:"namespace"`
}

// RandGenConfig contains settings for generated sample columns.
type RandGenConfig struct {
	// Seed of 0 draws a fresh seed on every run
	Seed uint64 `yaml:"seed" json:"seed" mapstructure:"seed"`
	// Rows is the index length of generated frames
	Rows int `yaml:"rows" json:"rows" mapstructure:"rows"`
}

// TopKConfig contains bounded selector settings.
type TopKConfig struct {
	Capacity int `yaml:"capacity" json:"capacity" mapstructure:"capacity"`
}

// NewConfig creates a Config with defaults suitable for the CLI and tests.
//
// Example:
//
//	cfg := config.NewConfig()
//	cfg.Frame.NaNPolicy = config.NaNPolicyDontPad
func NewConfig() *Config {
	return &Config{
		Name: "colframe",
		Frame: FrameConfig{
			NaNPolicy:       NaNPolicyPad,
			IndexColumnName: "INDEX",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "colframe",
		},
		RandGen: RandGenConfig{
			Seed: 23,
			Rows: 28,
		},
		TopK: TopKConfig{
			Capacity: 5,
		},
	}
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "name is required")
	}
	if err := c.Frame.Validate(); err != nil {
		return err
	}
	if c.RandGen.Rows < 0 {
		return errors.New(errors.ErrorTypeConfig, "randgen.rows cannot be negative")
	}
	if c.TopK.Capacity <= 0 {
		return errors.New(errors.ErrorTypeConfig, "topk.capacity must be positive")
	}
	return nil
}

// Validate checks the frame section.
func (f *FrameConfig) Validate() error {
	switch f.NaNPolicy {
	case NaNPolicyPad, NaNPolicyDontPad:
	default:
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("unknown nan_policy %q", f.NaNPolicy))
	}
	if f.IndexColumnName == "" {
		return errors.New(errors.ErrorTypeConfig, "index_column_name is required")
	}
	return nil
}

// PadsWithNaNs reports whether LoadData pads short columns.
func (f *FrameConfig) PadsWithNaNs() bool {
	return f.NaNPolicy == NaNPolicyPad
}
