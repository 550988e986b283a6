package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/synthlab-io/synthlab/internal/montecarlo"
	"github.com/synthlab-io/synthlab/internal/sensitivity"
	"github.com/synthlab-io/synthlab/internal/store"
)

func newSensitivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Rank scorecard dimensions by marginal effect on success rate",
		Long: `Sensitivity perturbs each scorecard dimension one at a time, holding the
others at baseline, re-simulates with a shared seed, and ranks the
dimensions by how strongly the success rate responds.

Example:
  synthlab sensitivity --complexity 0.7 --deltas 0.05,0.10 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadAppConfig(cmd)
			if err != nil {
				return err
			}

			scorecard, err := loadScorecard(cmd)
			if err != nil {
				return err
			}
			scenario, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			run := buildRunConfig(cmd, cfg)
			synths, err := loadSynths(cmd, run.Seed)
			if err != nil {
				return err
			}
			deltas, _ := cmd.Flags().GetFloat64Slice("deltas")

			analyzer := sensitivity.NewAnalyzer(montecarlo.NewEngine(logger), logger)
			result, err := analyzer.Analyze(sensitivity.Request{
				Synths:   synths,
				Baseline: &scorecard,
				Scenario: scenario,
				Run:      run,
				Deltas:   deltas,
			})
			if err != nil {
				return err
			}

			rec := store.SensitivityRecord{
				ID:           uuid.NewString(),
				ExperimentID: mustString(cmd, "experiment"),
				Result:       *result,
				CreatedAt:    time.Now(),
			}
			if save, _ := cmd.Flags().GetBool("save"); save {
				root, _ := cmd.Flags().GetString("root")
				st, err := store.NewSQLiteStore(root)
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.SaveSensitivity(cmd.Context(), rec); err != nil {
					return fmt.Errorf("failed to save analysis: %w", err)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(rec)
			}

			fmt.Printf("Baseline success rate: %.1f%%\n", result.BaselineSuccess*100)
			fmt.Printf("Most sensitive dimension: %s\n\n", result.MostSensitiveDimension)
			for _, dim := range result.Dimensions {
				fmt.Printf("  %d. %-16s index %.3f  (baseline %.2f)\n",
					dim.Rank, dim.Dimension, dim.SensitivityIndex, dim.BaselineValue)
			}
			if save, _ := cmd.Flags().GetBool("save"); save {
				fmt.Printf("\nSaved analysis %s\n", rec.ID)
			}
			return nil
		},
	}

	addScorecardFlags(cmd)
	addRunFlags(cmd)
	cmd.Flags().Float64Slice("deltas", nil, "Perturbation magnitudes (default 0.05,0.10)")
	cmd.Flags().Bool("save", false, "Persist the analysis to .synthlab/synthlab.db")
	cmd.Flags().String("experiment", "", "Experiment ID the analysis belongs to")

	return cmd
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
