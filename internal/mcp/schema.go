package mcp

import (
	"github.com/synthlab-io/synthlab/internal/models"
)

// ScorecardInput is the scorecard portion of a tool request. All four
// dimensions are required and must be in [0,1].
type ScorecardInput struct {
	Complexity    float64 `json:"complexity" jsonschema:"description=Feature complexity (0=trivial 1=overwhelming),required"`
	InitialEffort float64 `json:"initial_effort" jsonschema:"description=Upfront effort before first value (0=none 1=prohibitive),required"`
	PerceivedRisk float64 `json:"perceived_risk" jsonschema:"description=Perceived risk of trying the feature (0=safe 1=dangerous),required"`
	TimeToValue   float64 `json:"time_to_value" jsonschema:"description=Delay until the feature pays off (0=instant 1=never),required"`
}

// ScenarioInput holds optional scenario modifiers. Omitted fields default
// to zero (neutral).
type ScenarioInput struct {
	TrustModifier      float64 `json:"trust_modifier,omitempty" jsonschema:"description=Additive trust shift in [-0.5,0.5]"`
	FrictionModifier   float64 `json:"friction_modifier,omitempty" jsonschema:"description=Additive friction-tolerance shift in [-0.5,0.5]"`
	MotivationModifier float64 `json:"motivation_modifier,omitempty" jsonschema:"description=Additive motivation shift in [-0.5,0.5]"`
	TaskCriticality    float64 `json:"task_criticality,omitempty" jsonschema:"description=How critical the task is to the synth (0-1)"`
}

// PopulationInput selects the synth population: either an explicit YAML
// file or a generated archetype mix.
type PopulationInput struct {
	Path string `json:"path,omitempty" jsonschema:"description=Path to a population YAML file (relative to project root)"`
	Size int    `json:"size,omitempty" jsonschema:"description=Generated population size when no path is given (default 20)"`
}

// RunSimulationInput are the arguments for the run_simulation tool.
type RunSimulationInput struct {
	Scorecard   ScorecardInput   `json:"scorecard" jsonschema:"description=Scorecard parameters to simulate,required"`
	Scenario    *ScenarioInput   `json:"scenario,omitempty" jsonschema:"description=Optional scenario modifiers"`
	Population  *PopulationInput `json:"population,omitempty" jsonschema:"description=Synth population selection"`
	NExecutions int              `json:"n_executions,omitempty" jsonschema:"description=Trials per synth (default from config)"`
	Sigma       *float64         `json:"sigma,omitempty" jsonschema:"description=State-sampling noise std dev in [0,0.5] (default from config)"`
	Seed        *int64           `json:"seed,omitempty" jsonschema:"description=Random seed for reproducible runs"`
}

// RunSimulationOutput is the run_simulation tool result.
type RunSimulationOutput struct {
	Aggregate            models.OutcomeRates  `json:"aggregate" jsonschema:"description=Population-level outcome rates"`
	PerSynth             []models.SynthResult `json:"per_synth" jsonschema:"description=Per-synth outcome rates"`
	TotalSynths          int                  `json:"total_synths" jsonschema:"description=Number of synths simulated"`
	NExecutions          int                  `json:"n_executions" jsonschema:"description=Trials per synth"`
	ExecutionTimeSeconds float64              `json:"execution_time_seconds" jsonschema:"description=Wall-clock simulation time"`
}

// AnalyzeSensitivityInput are the arguments for the analyze_sensitivity tool.
type AnalyzeSensitivityInput struct {
	Scorecard    ScorecardInput   `json:"scorecard" jsonschema:"description=Baseline scorecard to analyze,required"`
	Scenario     *ScenarioInput   `json:"scenario,omitempty" jsonschema:"description=Optional scenario modifiers"`
	Population   *PopulationInput `json:"population,omitempty" jsonschema:"description=Synth population selection"`
	Deltas       []float64        `json:"deltas,omitempty" jsonschema:"description=Perturbation magnitudes (default 0.05 and 0.10)"`
	NExecutions  int              `json:"n_executions,omitempty" jsonschema:"description=Trials per synth (default from config)"`
	Sigma        *float64         `json:"sigma,omitempty" jsonschema:"description=State-sampling noise std dev (default from config)"`
	Seed         *int64           `json:"seed,omitempty" jsonschema:"description=Random seed shared by all runs of the analysis"`
	ExperimentID string           `json:"experiment_id,omitempty" jsonschema:"description=Experiment the analysis belongs to"`
}

// AnalyzeSensitivityOutput is the analyze_sensitivity tool result.
type AnalyzeSensitivityOutput struct {
	AnalysisID string                   `json:"analysis_id" jsonschema:"description=ID of the stored analysis"`
	Result     models.SensitivityResult `json:"result" jsonschema:"description=Ranked dimension sensitivities"`
}

// StartExplorationInput are the arguments for the start_exploration tool.
type StartExplorationInput struct {
	GoalSuccessRate float64          `json:"goal_success_rate" jsonschema:"description=Target aggregate success rate in [0,1],required"`
	Scorecard       ScorecardInput   `json:"scorecard" jsonschema:"description=Baseline scorecard the search starts from,required"`
	Scenario        *ScenarioInput   `json:"scenario,omitempty" jsonschema:"description=Optional scenario modifiers"`
	Population      *PopulationInput `json:"population,omitempty" jsonschema:"description=Synth population selection"`
	BeamWidth       int              `json:"beam_width,omitempty" jsonschema:"description=Frontier nodes kept per round (default from config)"`
	MaxDepth        int              `json:"max_depth,omitempty" jsonschema:"description=Maximum tree depth (default from config)"`
	MaxLLMCalls     int              `json:"max_llm_calls,omitempty" jsonschema:"description=Proposal-request budget (default from config)"`
	NExecutions     int              `json:"n_executions,omitempty" jsonschema:"description=Trials per synth per node (default from config)"`
	Sigma           *float64         `json:"sigma,omitempty" jsonschema:"description=State-sampling noise std dev (default from config)"`
	Seed            *int64           `json:"seed,omitempty" jsonschema:"description=Random seed for reproducible runs"`
	ExperimentID    string           `json:"experiment_id,omitempty" jsonschema:"description=Experiment the exploration belongs to"`
}

// NodeSummary is the compact node view returned by exploration tools.
type NodeSummary struct {
	ID          string                 `json:"id" jsonschema:"description=Node ID"`
	Depth       int                    `json:"depth" jsonschema:"description=Depth in the scenario tree (root=0)"`
	Action      string                 `json:"action,omitempty" jsonschema:"description=Action applied to reach this node"`
	Category    string                 `json:"category,omitempty" jsonschema:"description=Action category"`
	SuccessRate float64                `json:"success_rate" jsonschema:"description=Aggregate success rate at this node"`
	Scorecard   models.ScorecardParams `json:"scorecard" jsonschema:"description=Scorecard parameters at this node"`
}

// StartExplorationOutput is the start_exploration tool result.
type StartExplorationOutput struct {
	ExplorationID   string        `json:"exploration_id" jsonschema:"description=ID of the stored exploration"`
	Status          string        `json:"status" jsonschema:"description=Terminal status of the run"`
	TotalNodes      int           `json:"total_nodes" jsonschema:"description=Nodes created including the root"`
	TotalLLMCalls   int           `json:"total_llm_calls" jsonschema:"description=Proposal requests made"`
	CurrentDepth    int           `json:"current_depth" jsonschema:"description=Deepest node created"`
	BestSuccessRate float64       `json:"best_success_rate" jsonschema:"description=Best aggregate success rate found"`
	GoalAchieved    bool          `json:"goal_achieved" jsonschema:"description=Whether the goal was reached"`
	BestPath        []NodeSummary `json:"best_path" jsonschema:"description=Root-to-best-node action chain"`
}

// GetExplorationInput are the arguments for the get_exploration tool.
type GetExplorationInput struct {
	ID string `json:"id" jsonschema:"description=Exploration ID,required"`
}

// GetExplorationOutput is the get_exploration tool result.
type GetExplorationOutput struct {
	Exploration models.Exploration `json:"exploration" jsonschema:"description=Stored exploration record"`
	Nodes       []NodeSummary      `json:"nodes" jsonschema:"description=All nodes of the exploration in creation order"`
	BestPath    []NodeSummary      `json:"best_path" jsonschema:"description=Root-to-best-node action chain"`
}
