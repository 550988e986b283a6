package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synthlab-io/synthlab/internal/models"
	"github.com/synthlab-io/synthlab/internal/store"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <exploration-id>",
		Short: "Show a stored exploration with its scenario tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			st, err := store.NewSQLiteStore(root)
			if err != nil {
				return err
			}
			defer st.Close()

			exp, err := st.GetExploration(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			nodes, err := st.ListNodes(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(map[string]any{"exploration": exp, "nodes": nodes})
			}

			fmt.Printf("Exploration %s\n", exp.ID)
			fmt.Printf("  status:        %s\n", exp.Status)
			fmt.Printf("  goal:          %s %s %.2f\n", exp.Goal.Metric, exp.Goal.Operator, exp.Goal.Value)
			fmt.Printf("  nodes:         %d\n", exp.TotalNodes)
			fmt.Printf("  llm calls:     %d/%d\n", exp.TotalLLMCalls, exp.Config.MaxLLMCalls)
			fmt.Printf("  best success:  %.1f%%\n", exp.BestSuccessRate*100)
			fmt.Printf("  started:       %s\n", exp.StartedAt.Format("2006-01-02 15:04:05"))
			if exp.CompletedAt != nil {
				fmt.Printf("  completed:     %s\n", exp.CompletedAt.Format("2006-01-02 15:04:05"))
			}

			fmt.Println("\nScenario tree:")
			printTree(nodes)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored explorations",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			st, err := store.NewSQLiteStore(root)
			if err != nil {
				return err
			}
			defer st.Close()

			experiment, _ := cmd.Flags().GetString("experiment")
			exps, err := st.ListExplorations(cmd.Context(), experiment)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(exps)
			}

			if len(exps) == 0 {
				fmt.Println("No explorations found.")
				return nil
			}
			for _, exp := range exps {
				fmt.Printf("%s  %-20s  best %5.1f%%  nodes %3d  %s\n",
					exp.ID, exp.Status, exp.BestSuccessRate*100, exp.TotalNodes,
					exp.StartedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	cmd.Flags().String("experiment", "", "Filter by experiment ID")
	return cmd
}

// printTree renders the node list as an indented tree, children under
// parents in creation order.
func printTree(nodes []models.ScenarioNode) {
	children := make(map[string][]models.ScenarioNode)
	var roots []models.ScenarioNode
	for _, node := range nodes {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		children[*node.ParentID] = append(children[*node.ParentID], node)
	}

	var walk func(node models.ScenarioNode)
	walk = func(node models.ScenarioNode) {
		indent := ""
		for i := 0; i < node.Depth; i++ {
			indent += "  "
		}
		label := node.ActionApplied
		if node.IsRoot() {
			label = "(baseline)"
		}
		fmt.Printf("  %s- success %5.1f%%  %s\n", indent, node.SuccessRate()*100, label)
		for _, child := range children[node.ID] {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
}
