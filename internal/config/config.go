// Package config provides unified configuration loading for synthlab.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/synthlab-io/synthlab/internal/llm"
	"github.com/synthlab-io/synthlab/internal/models"
)

// Config contains all synthlab configuration settings.
type Config struct {
	// LLM contains settings for the proposal generator.
	LLM llm.ClientConfig `json:"llm" yaml:"llm"`

	// Simulation contains default engine settings.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Exploration contains default beam-search settings, overridable per run.
	Exploration models.ExplorationConfig `json:"exploration" yaml:"exploration"`

	// Logging contains settings for operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig holds default Monte Carlo engine settings.
type SimulationConfig struct {
	// NExecutions is the default number of trials per synth.
	NExecutions int `json:"n_executions" yaml:"n_executions"`

	// Sigma is the default state-sampling noise standard deviation.
	Sigma float64 `json:"sigma" yaml:"sigma"`

	// Workers caps parallel per-synth workers. Zero means GOMAXPROCS.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// LoggingConfig configures synthlab's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables run tracing to .synthlab/trace.jsonl.
	// "trace" additionally includes full proposal prompt/response content.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		LLM: llm.DefaultConfig(),
		Simulation: SimulationConfig{
			NExecutions: 100,
			Sigma:       0.1,
		},
		Exploration: models.ExplorationConfig{
			BeamWidth:   3,
			MaxDepth:    3,
			MaxLLMCalls: 20,
			NExecutions: 100,
			Sigma:       0.1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> ~/.synthlab/config.yaml -> environment.
func Load() (*Config, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".synthlab", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand environment variables in API key
	config.LLM.APIKey = expandEnvVars(config.LLM.APIKey)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	validProviders := map[string]bool{"": true, "anthropic": true, "openai": true, "heuristic": true}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid provider: %s (valid: anthropic, openai, heuristic, or empty)", c.LLM.Provider)
	}

	if c.LLM.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.LLM.Timeout)
	}

	if c.Simulation.NExecutions <= 0 {
		return fmt.Errorf("n_executions must be positive, got %d", c.Simulation.NExecutions)
	}
	if c.Simulation.Sigma < 0 || c.Simulation.Sigma > 0.5 {
		return fmt.Errorf("sigma must be in [0,0.5], got %v", c.Simulation.Sigma)
	}

	if err := c.Exploration.Validate(); err != nil {
		return err
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SYNTHLAB_LLM_PROVIDER"); v != "" {
		config.LLM.Provider = v
	}

	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && config.LLM.Provider == "anthropic" {
		config.LLM.APIKey = v
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" && config.LLM.Provider == "openai" {
		config.LLM.APIKey = v
	}

	if v := os.Getenv("SYNTHLAB_LLM_MODEL"); v != "" {
		config.LLM.Model = v
	}

	if v := os.Getenv("SYNTHLAB_N_EXECUTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.NExecutions = n
			config.Exploration.NExecutions = n
		}
	}

	if v := os.Getenv("SYNTHLAB_SIGMA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.Sigma = f
			config.Exploration.Sigma = f
		}
	}

	if v := os.Getenv("SYNTHLAB_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
