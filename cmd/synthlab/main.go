package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/synthlab-io/synthlab/internal/store"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "synthlab",
		Short: "Synthlab - stochastic adoption simulation for product scorecards",
		Long: `synthlab simulates how a population of synthetic user personas responds
to a proposed feature, described by a four-dimension scorecard.

It runs Monte Carlo adoption simulations, ranks scorecard dimensions by
their marginal effect on the success rate, and explores scorecard
modifications with an LLM-guided beam search toward a success-rate goal.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, or trace")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newSimulateCmd(),
		newSensitivityCmd(),
		newExploreCmd(),
		newShowCmd(),
		newListCmd(),
		newPopulationCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("synthlab version %s\n", version)
			}
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize synthlab tracking in current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			synthlabDir := filepath.Join(root, ".synthlab")
			if err := os.MkdirAll(synthlabDir, 0755); err != nil {
				return fmt.Errorf("failed to create .synthlab directory: %w", err)
			}

			// Create manifest.yaml
			manifestPath := filepath.Join(synthlabDir, "manifest.yaml")
			if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
				manifest := `# Synthlab Manifest
version: "1.0"
created: %s

# Explorations and sensitivity analyses are stored in synthlab.db
# Run 'synthlab simulate' to simulate a scorecard
# Run 'synthlab explore' to search for scorecard improvements
`
				content := fmt.Sprintf(manifest, time.Now().Format(time.RFC3339))
				if err := os.WriteFile(manifestPath, []byte(content), 0644); err != nil {
					return fmt.Errorf("failed to create manifest.yaml: %w", err)
				}
			}

			// Opening the store creates the database and schema.
			st, err := store.NewSQLiteStore(root)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			st.Close()

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{
					"status": "initialized",
					"path":   synthlabDir,
				})
			} else {
				fmt.Printf("Initialized .synthlab/ in %s\n", root)
			}

			return nil
		},
	}
}
