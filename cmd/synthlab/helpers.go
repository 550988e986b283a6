package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/synthlab-io/synthlab/internal/config"
	"github.com/synthlab-io/synthlab/internal/logging"
	"github.com/synthlab-io/synthlab/internal/models"
	"github.com/synthlab-io/synthlab/internal/montecarlo"
	"github.com/synthlab-io/synthlab/internal/population"
)

// loadAppConfig loads the layered config and builds the stderr logger. The
// --log-level flag wins over the configured level.
func loadAppConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logging.NewLogger(cfg.Logging.Level, os.Stderr), nil
}

// addScorecardFlags registers the four dimension flags plus an optional
// YAML file that overrides them.
func addScorecardFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("complexity", 0.5, "Feature complexity (0=trivial, 1=overwhelming)")
	cmd.Flags().Float64("initial-effort", 0.5, "Upfront effort before first value (0=none, 1=prohibitive)")
	cmd.Flags().Float64("perceived-risk", 0.5, "Perceived risk of trying the feature (0=safe, 1=dangerous)")
	cmd.Flags().Float64("time-to-value", 0.5, "Delay until the feature pays off (0=instant, 1=never)")
	cmd.Flags().String("scorecard", "", "Path to a scorecard YAML file (overrides dimension flags)")
}

// addRunFlags registers the simulation run flags shared by simulate,
// sensitivity, and explore.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("population", "", "Path to a population YAML file (default: generated archetype mix)")
	cmd.Flags().Int("population-size", 20, "Generated population size when no file is given")
	cmd.Flags().Int("n-executions", 0, "Trials per synth (default from config)")
	cmd.Flags().Float64("sigma", -1, "State-sampling noise std dev in [0,0.5] (default from config)")
	cmd.Flags().Int64("seed", 0, "Random seed for reproducible runs (0 = time-derived)")
	cmd.Flags().String("scenario", "", "Path to a scenario modifiers YAML file")
}

// loadScorecard resolves the scorecard from the YAML file flag or the
// individual dimension flags.
func loadScorecard(cmd *cobra.Command) (models.ScorecardParams, error) {
	var scorecard models.ScorecardParams
	if path, _ := cmd.Flags().GetString("scorecard"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return scorecard, fmt.Errorf("reading scorecard file: %w", err)
		}
		if err := yaml.Unmarshal(data, &scorecard); err != nil {
			return scorecard, fmt.Errorf("parsing scorecard file: %w", err)
		}
	} else {
		scorecard.Complexity, _ = cmd.Flags().GetFloat64("complexity")
		scorecard.InitialEffort, _ = cmd.Flags().GetFloat64("initial-effort")
		scorecard.PerceivedRisk, _ = cmd.Flags().GetFloat64("perceived-risk")
		scorecard.TimeToValue, _ = cmd.Flags().GetFloat64("time-to-value")
	}
	if err := scorecard.Validate(); err != nil {
		return scorecard, err
	}
	return scorecard, nil
}

// loadScenario reads the optional scenario modifiers file. No file means
// neutral modifiers.
func loadScenario(cmd *cobra.Command) (models.ScenarioModifiers, error) {
	var scenario models.ScenarioModifiers
	path, _ := cmd.Flags().GetString("scenario")
	if path == "" {
		return scenario, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return scenario, fmt.Errorf("reading scenario file: %w", err)
	}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return scenario, fmt.Errorf("parsing scenario file: %w", err)
	}
	if err := scenario.Validate(); err != nil {
		return scenario, err
	}
	return scenario, nil
}

// loadSynths resolves the population: an explicit file wins, otherwise a
// deterministic archetype mix is generated from the seed.
func loadSynths(cmd *cobra.Command, seed *int64) ([]models.Synth, error) {
	if path, _ := cmd.Flags().GetString("population"); path != "" {
		root, _ := cmd.Flags().GetString("root")
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		return population.Load(path)
	}

	size, _ := cmd.Flags().GetInt("population-size")
	genSeed := time.Now().UnixNano()
	if seed != nil {
		genSeed = *seed
	}
	return population.Generate(size, nil, genSeed)
}

// seedFlag returns the --seed flag as an optional seed. Zero means unset.
func seedFlag(cmd *cobra.Command) *int64 {
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		return nil
	}
	return &seed
}

// buildRunConfig merges the run flags with the configured simulation
// defaults.
func buildRunConfig(cmd *cobra.Command, cfg *config.Config) montecarlo.Config {
	run := montecarlo.Config{
		NExecutions: cfg.Simulation.NExecutions,
		Sigma:       cfg.Simulation.Sigma,
		Workers:     cfg.Simulation.Workers,
		Seed:        seedFlag(cmd),
	}
	if n, _ := cmd.Flags().GetInt("n-executions"); n > 0 {
		run.NExecutions = n
	}
	if sigma, _ := cmd.Flags().GetFloat64("sigma"); sigma >= 0 {
		run.Sigma = sigma
	}
	return run
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
