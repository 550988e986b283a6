package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Simulation.NExecutions != 100 {
		t.Errorf("NExecutions = %d, want 100", cfg.Simulation.NExecutions)
	}
	if cfg.Exploration.BeamWidth != 3 || cfg.Exploration.MaxDepth != 3 || cfg.Exploration.MaxLLMCalls != 20 {
		t.Errorf("unexpected exploration defaults: %+v", cfg.Exploration)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
llm:
  provider: anthropic
  api_key: ${SYNTHLAB_TEST_KEY}
  model: custom-model
simulation:
  n_executions: 250
  sigma: 0.2
exploration:
  beam_width: 5
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SYNTHLAB_TEST_KEY", "sk-test-123")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LLM.Provider != "anthropic" || cfg.LLM.Model != "custom-model" {
		t.Errorf("llm config not loaded: %+v", cfg.LLM)
	}
	if cfg.LLM.APIKey != "sk-test-123" {
		t.Errorf("APIKey = %q, env var not expanded", cfg.LLM.APIKey)
	}
	if cfg.Simulation.NExecutions != 250 || cfg.Simulation.Sigma != 0.2 {
		t.Errorf("simulation config not loaded: %+v", cfg.Simulation)
	}
	if cfg.Exploration.BeamWidth != 5 {
		t.Errorf("BeamWidth = %d, want 5", cfg.Exploration.BeamWidth)
	}
	// Unspecified fields keep their defaults.
	if cfg.Exploration.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want default 3", cfg.Exploration.MaxDepth)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SYNTHLAB_LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-anthropic")
	t.Setenv("SYNTHLAB_N_EXECUTIONS", "500")
	t.Setenv("SYNTHLAB_SIGMA", "0.3")
	t.Setenv("SYNTHLAB_LOG_LEVEL", "trace")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.LLM.Provider != "openai" {
		t.Errorf("Provider = %q", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "sk-openai" {
		t.Errorf("APIKey = %q, want the openai key for the openai provider", cfg.LLM.APIKey)
	}
	if cfg.Simulation.NExecutions != 500 || cfg.Exploration.NExecutions != 500 {
		t.Errorf("n_executions override not applied to both: %d / %d",
			cfg.Simulation.NExecutions, cfg.Exploration.NExecutions)
	}
	if cfg.Simulation.Sigma != 0.3 {
		t.Errorf("Sigma = %v", cfg.Simulation.Sigma)
	}
	if cfg.Logging.Level != "trace" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad provider", func(c *Config) { c.LLM.Provider = "cohere" }},
		{"negative timeout", func(c *Config) { c.LLM.Timeout = -1 }},
		{"zero executions", func(c *Config) { c.Simulation.NExecutions = 0 }},
		{"sigma out of range", func(c *Config) { c.Simulation.Sigma = 0.7 }},
		{"bad exploration config", func(c *Config) { c.Exploration.BeamWidth = 99 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
