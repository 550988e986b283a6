package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synthlab-io/synthlab/internal/montecarlo"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a scorecard against a synth population",
		Long: `Simulate runs a Monte Carlo adoption simulation: each synth in the
population attempts the scorecarded feature n times, and the aggregate
DID_NOT_TRY / FAILED / SUCCESS rates are reported.

Example:
  synthlab simulate --complexity 0.7 --time-to-value 0.4 --seed 42`,
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

			engine := montecarlo.NewEngine(logger)
			results, err := engine.RunSimulation(synths, scorecard, scenario, run)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(results)
			}

			fmt.Printf("Simulated %d synths x %d executions in %.2fs\n\n",
				results.TotalSynths, results.NExecutions, results.ExecutionTimeSeconds)
			fmt.Printf("  success:      %5.1f%%\n", results.Aggregate.SuccessRate*100)
			fmt.Printf("  failed:       %5.1f%%\n", results.Aggregate.FailedRate*100)
			fmt.Printf("  did not try:  %5.1f%%\n", results.Aggregate.DidNotTryRate*100)

			verbose, _ := cmd.Flags().GetBool("per-synth")
			if verbose {
				fmt.Println()
				for _, sr := range results.PerSynth {
					fmt.Printf("  %-24s success %5.1f%%  failed %5.1f%%  did-not-try %5.1f%%\n",
						sr.SynthID, sr.Rates.SuccessRate*100, sr.Rates.FailedRate*100, sr.Rates.DidNotTryRate*100)
				}
			}
			return nil
		},
	}

	addScorecardFlags(cmd)
	addRunFlags(cmd)
	cmd.Flags().Bool("per-synth", false, "Print per-synth outcome rates")

	return cmd
}
