package models

import "time"

// ScenarioNode is one simulated scenario in an exploration tree. A node is
// created once, its parent fixed at creation, and never mutated afterwards;
// the tree is acyclic by construction. The root (depth 0) carries the
// baseline scorecard and has no action.
type ScenarioNode struct {
	ID            string `json:"id" yaml:"id"`
	ExplorationID string `json:"exploration_id" yaml:"exploration_id"`

	// ParentID is nil only for the root node.
	ParentID *string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`

	// Depth is 0 for the root, parent depth + 1 otherwise.
	Depth int `json:"depth" yaml:"depth"`

	// ScorecardParams is the post-impact scorecard this node was simulated with.
	ScorecardParams ScorecardParams `json:"scorecard_params" yaml:"scorecard_params"`

	// SimulationResults holds the outcome of simulating this node's scorecard.
	SimulationResults *SimulationResults `json:"simulation_results,omitempty" yaml:"simulation_results,omitempty"`

	// ActionApplied, ActionCategory, and Rationale describe the proposal that
	// produced this node. All empty for the root.
	ActionApplied  string `json:"action_applied,omitempty" yaml:"action_applied,omitempty"`
	ActionCategory string `json:"action_category,omitempty" yaml:"action_category,omitempty"`
	Rationale      string `json:"rationale,omitempty" yaml:"rationale,omitempty"`

	ExecutionTimeSeconds float64   `json:"execution_time_seconds" yaml:"execution_time_seconds"`
	CreatedAt            time.Time `json:"created_at" yaml:"created_at"`
}

// SuccessRate returns the node's aggregate success rate, or 0 when the node
// has no simulation results.
func (n ScenarioNode) SuccessRate() float64 {
	if n.SimulationResults == nil {
		return 0
	}
	return n.SimulationResults.Aggregate.SuccessRate
}

// IsRoot reports whether this is the depth-0 baseline node.
func (n ScenarioNode) IsRoot() bool {
	return n.ParentID == nil
}
