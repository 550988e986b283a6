package models

import (
	"fmt"
	"time"
)

// GoalMetricSuccessRate is the only goal metric currently supported.
const GoalMetricSuccessRate = "success_rate"

// GoalOperatorGTE is the only goal operator currently supported.
const GoalOperatorGTE = ">="

// Goal is the exploration target: push the named metric past Value.
type Goal struct {
	Metric   string  `json:"metric" yaml:"metric"`
	Operator string  `json:"operator" yaml:"operator"`
	Value    float64 `json:"value" yaml:"value"`
}

// Validate checks the goal against the supported metric/operator set and
// the [0,1] target range.
func (g Goal) Validate() error {
	if g.Metric != GoalMetricSuccessRate {
		return fmt.Errorf("%w: unsupported goal metric %q (supported: %s)", ErrValidation, g.Metric, GoalMetricSuccessRate)
	}
	if g.Operator != GoalOperatorGTE {
		return fmt.Errorf("%w: unsupported goal operator %q (supported: %s)", ErrValidation, g.Operator, GoalOperatorGTE)
	}
	if g.Value < 0 || g.Value > 1 {
		return fmt.Errorf("%w: goal value must be in [0,1], got %v", ErrValidation, g.Value)
	}
	return nil
}

// IsAchieved reports whether the observed metric value satisfies the goal.
func (g Goal) IsAchieved(value float64) bool {
	return value >= g.Value
}

// ExplorationConfig bounds a beam-search run.
type ExplorationConfig struct {
	// BeamWidth is the number of frontier nodes kept per round, in [1,10].
	BeamWidth int `json:"beam_width" yaml:"beam_width"`

	// MaxDepth is the deepest node the search may create, in [1,10].
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// MaxLLMCalls caps proposal-generator requests, in [1,100].
	MaxLLMCalls int `json:"max_llm_calls" yaml:"max_llm_calls"`

	// NExecutions is the trials per synth per simulation, in [10,1000].
	NExecutions int `json:"n_executions" yaml:"n_executions"`

	// Sigma is the state-sampling noise standard deviation, in [0,0.5].
	Sigma float64 `json:"sigma" yaml:"sigma"`

	// Seed fixes the random source for reproducible runs. Nil means a
	// time-derived seed.
	Seed *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// ProposalsPerNode caps the proposals requested per kept frontier node.
	// Zero means BeamWidth.
	ProposalsPerNode int `json:"proposals_per_node,omitempty" yaml:"proposals_per_node,omitempty"`
}

// Validate checks every field against its allowed range.
func (c ExplorationConfig) Validate() error {
	if c.BeamWidth < 1 || c.BeamWidth > 10 {
		return fmt.Errorf("%w: beam_width must be in [1,10], got %d", ErrValidation, c.BeamWidth)
	}
	if c.MaxDepth < 1 || c.MaxDepth > 10 {
		return fmt.Errorf("%w: max_depth must be in [1,10], got %d", ErrValidation, c.MaxDepth)
	}
	if c.MaxLLMCalls < 1 || c.MaxLLMCalls > 100 {
		return fmt.Errorf("%w: max_llm_calls must be in [1,100], got %d", ErrValidation, c.MaxLLMCalls)
	}
	if c.NExecutions < 10 || c.NExecutions > 1000 {
		return fmt.Errorf("%w: n_executions must be in [10,1000], got %d", ErrValidation, c.NExecutions)
	}
	if c.Sigma < 0 || c.Sigma > 0.5 {
		return fmt.Errorf("%w: sigma must be in [0,0.5], got %v", ErrValidation, c.Sigma)
	}
	if c.ProposalsPerNode < 0 || c.ProposalsPerNode > 10 {
		return fmt.Errorf("%w: proposals_per_node must be in [0,10], got %d", ErrValidation, c.ProposalsPerNode)
	}
	return nil
}

// EffectiveProposalsPerNode resolves the zero default to BeamWidth.
func (c ExplorationConfig) EffectiveProposalsPerNode() int {
	if c.ProposalsPerNode > 0 {
		return c.ProposalsPerNode
	}
	return c.BeamWidth
}

// ExplorationStatus is the beam-search state machine's status. RUNNING is
// the only non-terminal state; all transitions out of it are final.
type ExplorationStatus string

const (
	StatusRunning           ExplorationStatus = "RUNNING"
	StatusGoalAchieved      ExplorationStatus = "GOAL_ACHIEVED"
	StatusDepthLimitReached ExplorationStatus = "DEPTH_LIMIT_REACHED"
	StatusCostLimitReached  ExplorationStatus = "COST_LIMIT_REACHED"
	StatusNoViablePaths     ExplorationStatus = "NO_VIABLE_PATHS"
)

// Terminal reports whether the status ends the exploration.
func (s ExplorationStatus) Terminal() bool {
	return s != StatusRunning
}

// Exploration is one beam-search run over scorecard modifications. It owns
// every ScenarioNode in its tree; deleting an exploration cascades to its
// nodes.
type Exploration struct {
	ID                 string            `json:"id" yaml:"id"`
	ExperimentID       string            `json:"experiment_id" yaml:"experiment_id"`
	BaselineAnalysisID string            `json:"baseline_analysis_id" yaml:"baseline_analysis_id"`
	Goal               Goal              `json:"goal" yaml:"goal"`
	Config             ExplorationConfig `json:"config" yaml:"config"`
	Status             ExplorationStatus `json:"status" yaml:"status"`
	CurrentDepth       int               `json:"current_depth" yaml:"current_depth"`
	TotalNodes         int               `json:"total_nodes" yaml:"total_nodes"`
	TotalLLMCalls      int               `json:"total_llm_calls" yaml:"total_llm_calls"`
	BestSuccessRate    float64           `json:"best_success_rate" yaml:"best_success_rate"`
	StartedAt          time.Time         `json:"started_at" yaml:"started_at"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Complete transitions the exploration to a terminal status and stamps
// CompletedAt. Status transitions are one-directional: calling Complete on
// an already-terminal exploration is an error, as is completing to RUNNING.
func (e *Exploration) Complete(status ExplorationStatus, at time.Time) error {
	if !status.Terminal() {
		return fmt.Errorf("%w: cannot complete exploration %s to non-terminal status %s", ErrInvalidState, e.ID, status)
	}
	if e.Status.Terminal() {
		return fmt.Errorf("%w: exploration %s already completed with status %s", ErrInvalidState, e.ID, e.Status)
	}
	e.Status = status
	t := at
	e.CompletedAt = &t
	return nil
}
