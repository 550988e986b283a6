package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/synthlab-io/synthlab/internal/exploration"
	"github.com/synthlab-io/synthlab/internal/llm"
	"github.com/synthlab-io/synthlab/internal/logging"
	"github.com/synthlab-io/synthlab/internal/models"
	"github.com/synthlab-io/synthlab/internal/montecarlo"
	"github.com/synthlab-io/synthlab/internal/store"
)

func newExploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Beam-search scorecard modifications toward a success-rate goal",
		Long: `Explore runs an LLM-guided beam search: starting from the baseline
scorecard, it requests action proposals for the most promising scenario
nodes, simulates each proposed modification, and stops when the goal is
reached or a depth, cost, or viability limit fires.

Example:
  synthlab explore --goal 0.6 --complexity 0.7 --max-depth 3 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadAppConfig(cmd)
			if err != nil {
				return err
			}

			goal, _ := cmd.Flags().GetFloat64("goal")
			scorecard, err := loadScorecard(cmd)
			if err != nil {
				return err
			}
			scenario, err := loadScenario(cmd)
			if err != nil {
				return err
			}

			explCfg := cfg.Exploration
			if v, _ := cmd.Flags().GetInt("beam-width"); v > 0 {
				explCfg.BeamWidth = v
			}
			if v, _ := cmd.Flags().GetInt("max-depth"); v > 0 {
				explCfg.MaxDepth = v
			}
			if v, _ := cmd.Flags().GetInt("max-llm-calls"); v > 0 {
				explCfg.MaxLLMCalls = v
			}
			if v, _ := cmd.Flags().GetInt("n-executions"); v > 0 {
				explCfg.NExecutions = v
			}
			if v, _ := cmd.Flags().GetFloat64("sigma"); v >= 0 {
				explCfg.Sigma = v
			}
			explCfg.Seed = seedFlag(cmd)

			synths, err := loadSynths(cmd, explCfg.Seed)
			if err != nil {
				return err
			}

			if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
				cfg.LLM.Provider = provider
			}
			proposer, err := llm.NewProposer(cfg.LLM)
			if err != nil {
				return err
			}

			root, _ := cmd.Flags().GetString("root")
			trace := logging.NewTraceLogger(filepath.Join(root, ".synthlab"), cfg.Logging.Level)
			defer trace.Close()

			engine := montecarlo.NewEngine(logger)
			baselineResults, err := engine.RunSimulation(synths, scorecard, scenario, montecarlo.Config{
				NExecutions: explCfg.NExecutions,
				Sigma:       explCfg.Sigma,
				Seed:        explCfg.Seed,
				Workers:     cfg.Simulation.Workers,
			})
			if err != nil {
				return fmt.Errorf("baseline simulation: %w", err)
			}

			controller := exploration.NewController(engine, proposer, logger, trace)
			run, err := controller.Explore(cmd.Context(), exploration.StartParams{
				ExperimentID: mustString(cmd, "experiment"),
				Goal: models.Goal{
					Metric:   models.GoalMetricSuccessRate,
					Operator: models.GoalOperatorGTE,
					Value:    goal,
				},
				Config:           explCfg,
				Synths:           synths,
				Scenario:         scenario,
				Baseline:         &scorecard,
				BaselineOutcomes: baselineResults,
			})
			if err != nil {
				return err
			}

			st, err := store.NewSQLiteStore(root)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.SaveExploration(cmd.Context(), run.Exploration); err != nil {
				return fmt.Errorf("failed to save exploration: %w", err)
			}
			for _, node := range run.Tree.Nodes() {
				if err := st.SaveNode(cmd.Context(), node); err != nil {
					return fmt.Errorf("failed to save node %s: %w", node.ID, err)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(map[string]any{
					"exploration": run.Exploration,
					"nodes":       run.Tree.Nodes(),
					"solution":    run.Solution,
				})
			}

			printExplorationSummary(run)
			return nil
		},
	}

	addScorecardFlags(cmd)
	addRunFlags(cmd)
	cmd.Flags().Float64("goal", 0.6, "Target aggregate success rate in [0,1]")
	cmd.Flags().Int("beam-width", 0, "Frontier nodes kept per round (default from config)")
	cmd.Flags().Int("max-depth", 0, "Maximum tree depth (default from config)")
	cmd.Flags().Int("max-llm-calls", 0, "Proposal-request budget (default from config)")
	cmd.Flags().String("provider", "", "Proposal provider: anthropic, openai, or heuristic")
	cmd.Flags().String("experiment", "", "Experiment ID the exploration belongs to")

	return cmd
}

func printExplorationSummary(run *exploration.Run) {
	exp := run.Exploration
	fmt.Printf("Exploration %s\n", exp.ID)
	fmt.Printf("  status:        %s\n", exp.Status)
	fmt.Printf("  nodes:         %d\n", exp.TotalNodes)
	fmt.Printf("  llm calls:     %d/%d\n", exp.TotalLLMCalls, exp.Config.MaxLLMCalls)
	fmt.Printf("  depth:         %d/%d\n", exp.CurrentDepth, exp.Config.MaxDepth)
	fmt.Printf("  best success:  %.1f%% (goal %.1f%%)\n", exp.BestSuccessRate*100, exp.Goal.Value*100)

	if run.Solution != nil {
		fmt.Println("\nGoal achieved. Action path:")
		path, err := run.Tree.Path(run.Solution.ID)
		if err != nil {
			return
		}
		for _, node := range path {
			if node.IsRoot() {
				fmt.Printf("  baseline: success %.1f%%\n", node.SuccessRate()*100)
				continue
			}
			fmt.Printf("  %d. %s  ->  success %.1f%%\n", node.Depth, node.ActionApplied, node.SuccessRate()*100)
		}
	}
}
