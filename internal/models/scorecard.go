// Package models defines the data shapes shared by the simulation engine,
// the sensitivity analyzer, and the exploration tree: scorecards, scenario
// modifiers, synth traits, outcome rates, and exploration state.
package models

import (
	"fmt"
	"math"
)

// Scorecard dimension names, in canonical order. The order is load-bearing:
// sensitivity ranking uses it as the stable tie-break.
const (
	DimComplexity    = "complexity"
	DimInitialEffort = "initial_effort"
	DimPerceivedRisk = "perceived_risk"
	DimTimeToValue   = "time_to_value"
)

// Dimensions returns the four scorecard dimension names in canonical order.
func Dimensions() []string {
	return []string{DimComplexity, DimInitialEffort, DimPerceivedRisk, DimTimeToValue}
}

// ScorecardParams describes a proposed feature along four dimensions, each
// in [0,1]. Lower is better for all four: less complex, less upfront effort,
// less perceived risk, faster time to value.
type ScorecardParams struct {
	Complexity    float64 `json:"complexity" yaml:"complexity"`
	InitialEffort float64 `json:"initial_effort" yaml:"initial_effort"`
	PerceivedRisk float64 `json:"perceived_risk" yaml:"perceived_risk"`
	TimeToValue   float64 `json:"time_to_value" yaml:"time_to_value"`
}

// Get returns the score for the named dimension.
// Unknown dimensions return 0 and false.
func (s ScorecardParams) Get(dimension string) (float64, bool) {
	switch dimension {
	case DimComplexity:
		return s.Complexity, true
	case DimInitialEffort:
		return s.InitialEffort, true
	case DimPerceivedRisk:
		return s.PerceivedRisk, true
	case DimTimeToValue:
		return s.TimeToValue, true
	default:
		return 0, false
	}
}

// With returns a copy with the named dimension set to value, clamped to [0,1].
// Unknown dimensions are ignored.
func (s ScorecardParams) With(dimension string, value float64) ScorecardParams {
	v := Clamp01(value)
	switch dimension {
	case DimComplexity:
		s.Complexity = v
	case DimInitialEffort:
		s.InitialEffort = v
	case DimPerceivedRisk:
		s.PerceivedRisk = v
	case DimTimeToValue:
		s.TimeToValue = v
	}
	return s
}

// ApplyImpacts returns a copy with each impact delta added to its dimension
// and the sum clamped to [0,1]. Dimensions absent from impacts are unchanged;
// unknown impact keys are ignored.
func (s ScorecardParams) ApplyImpacts(impacts map[string]float64) ScorecardParams {
	out := s
	for dim, delta := range impacts {
		if cur, ok := out.Get(dim); ok {
			out = out.With(dim, cur+delta)
		}
	}
	return out
}

// Clamped returns a copy with every dimension clamped to [0,1].
func (s ScorecardParams) Clamped() ScorecardParams {
	return ScorecardParams{
		Complexity:    Clamp01(s.Complexity),
		InitialEffort: Clamp01(s.InitialEffort),
		PerceivedRisk: Clamp01(s.PerceivedRisk),
		TimeToValue:   Clamp01(s.TimeToValue),
	}
}

// Validate checks that every dimension is within [0,1].
func (s ScorecardParams) Validate() error {
	for _, dim := range Dimensions() {
		v, _ := s.Get(dim)
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("%w: scorecard %s must be in [0,1], got %v", ErrValidation, dim, v)
		}
	}
	return nil
}

// ScenarioModifiers adjust state sampling for one simulation run. The three
// modifiers are signed offsets applied to the corresponding latent trait
// means before sampling; task criticality is in [0,1].
type ScenarioModifiers struct {
	TrustModifier      float64 `json:"trust_modifier" yaml:"trust_modifier"`
	FrictionModifier   float64 `json:"friction_modifier" yaml:"friction_modifier"`
	MotivationModifier float64 `json:"motivation_modifier" yaml:"motivation_modifier"`
	TaskCriticality    float64 `json:"task_criticality" yaml:"task_criticality"`
}

// Validate checks that task criticality is within [0,1].
func (m ScenarioModifiers) Validate() error {
	if m.TaskCriticality < 0 || m.TaskCriticality > 1 || math.IsNaN(m.TaskCriticality) {
		return fmt.Errorf("%w: task_criticality must be in [0,1], got %v", ErrValidation, m.TaskCriticality)
	}
	return nil
}

// Clamp01 clamps v to the [0,1] interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Round3 rounds v to three decimal places, the precision at which all
// outcome rates are reported.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
