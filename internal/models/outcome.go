package models

import (
	"math"
	"strconv"
)

// Outcome is the terminal result of a single simulated trial.
type Outcome string

const (
	OutcomeDidNotTry Outcome = "did_not_try"
	OutcomeFailed    Outcome = "failed"
	OutcomeSuccess   Outcome = "success"
)

// OutcomeRates holds the three outcome proportions for one synth or for the
// whole population. Rates are rounded to three decimals and must sum to 1.0
// within ±0.001.
type OutcomeRates struct {
	DidNotTryRate float64 `json:"did_not_try_rate" yaml:"did_not_try_rate"`
	FailedRate    float64 `json:"failed_rate" yaml:"failed_rate"`
	SuccessRate   float64 `json:"success_rate" yaml:"success_rate"`
}

// Sum returns the total of the three rates.
func (r OutcomeRates) Sum() float64 {
	return r.DidNotTryRate + r.FailedRate + r.SuccessRate
}

// Valid reports whether the rates are non-negative and sum to 1.0 within
// the ±0.001 rounding tolerance.
func (r OutcomeRates) Valid() bool {
	if r.DidNotTryRate < 0 || r.FailedRate < 0 || r.SuccessRate < 0 {
		return false
	}
	return math.Abs(r.Sum()-1.0) <= 0.001
}

// Rounded returns a copy with each rate rounded to three decimals.
func (r OutcomeRates) Rounded() OutcomeRates {
	return OutcomeRates{
		DidNotTryRate: Round3(r.DidNotTryRate),
		FailedRate:    Round3(r.FailedRate),
		SuccessRate:   Round3(r.SuccessRate),
	}
}

// SynthResult pairs one synth's ID with its simulated outcome rates.
type SynthResult struct {
	SynthID string       `json:"synth_id" yaml:"synth_id"`
	Rates   OutcomeRates `json:"rates" yaml:"rates"`
}

// SimulationResults is the immutable output of one engine run: per-synth
// rates plus the population aggregate (arithmetic mean of per-synth rates,
// not a pooled sample).
type SimulationResults struct {
	PerSynth             []SynthResult `json:"per_synth" yaml:"per_synth"`
	Aggregate            OutcomeRates  `json:"aggregate" yaml:"aggregate"`
	TotalSynths          int           `json:"total_synths" yaml:"total_synths"`
	NExecutions          int           `json:"n_executions" yaml:"n_executions"`
	ExecutionTimeSeconds float64       `json:"execution_time_seconds" yaml:"execution_time_seconds"`
}

// DimensionSensitivity records the OAT result for one scorecard dimension.
// OutcomesByDelta is keyed by DeltaKey of the rounded signed delta.
type DimensionSensitivity struct {
	Dimension        string                  `json:"dimension" yaml:"dimension"`
	BaselineValue    float64                 `json:"baseline_value" yaml:"baseline_value"`
	DeltasTested     []float64               `json:"deltas_tested" yaml:"deltas_tested"`
	OutcomesByDelta  map[string]OutcomeRates `json:"outcomes_by_delta" yaml:"outcomes_by_delta"`
	SensitivityIndex float64                 `json:"sensitivity_index" yaml:"sensitivity_index"`
	Rank             int                     `json:"rank" yaml:"rank"`
}

// DeltaKey formats a signed delta, rounded to three decimals, as the map
// key used in OutcomesByDelta. Plain string keys keep the structure
// JSON-serializable.
func DeltaKey(delta float64) string {
	return strconv.FormatFloat(Round3(delta), 'f', -1, 64)
}

// SensitivityResult aggregates one DimensionSensitivity per scorecard
// dimension. Dimensions are ordered by rank; rank 1 is the most sensitive.
type SensitivityResult struct {
	Dimensions             []DimensionSensitivity `json:"dimensions" yaml:"dimensions"`
	BaselineSuccess        float64                `json:"baseline_success" yaml:"baseline_success"`
	DeltasUsed             []float64              `json:"deltas_used" yaml:"deltas_used"`
	MostSensitiveDimension string                 `json:"most_sensitive_dimension" yaml:"most_sensitive_dimension"`
}
