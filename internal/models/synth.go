package models

import (
	"fmt"
	"math"
)

// LatentTraits holds a synth's behavioral trait means, each in [0,1]. They
// are the centers of the Gaussian perturbations drawn per execution; the
// synth entity that owns them is supplied by the caller and never mutated
// by the core.
type LatentTraits struct {
	CapabilityMean        float64 `json:"capability_mean" yaml:"capability_mean"`
	TrustMean             float64 `json:"trust_mean" yaml:"trust_mean"`
	FrictionToleranceMean float64 `json:"friction_tolerance_mean" yaml:"friction_tolerance_mean"`
	ExplorationProb       float64 `json:"exploration_prob" yaml:"exploration_prob"`
}

// DefaultLatentTraits returns the neutral trait vector used for synths that
// lack latent traits: 0.5 for all four means.
func DefaultLatentTraits() LatentTraits {
	return LatentTraits{
		CapabilityMean:        0.5,
		TrustMean:             0.5,
		FrictionToleranceMean: 0.5,
		ExplorationProb:       0.5,
	}
}

// Validate checks that every trait mean is within [0,1].
func (t LatentTraits) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"capability_mean", t.CapabilityMean},
		{"trust_mean", t.TrustMean},
		{"friction_tolerance_mean", t.FrictionToleranceMean},
		{"exploration_prob", t.ExplorationProb},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 1 || math.IsNaN(f.value) {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrValidation, f.name, f.value)
		}
	}
	return nil
}

// Synth is a synthetic user persona. Traits may be nil; the engine falls
// back to DefaultLatentTraits in that case.
type Synth struct {
	ID     string        `json:"id" yaml:"id"`
	Name   string        `json:"name,omitempty" yaml:"name,omitempty"`
	Traits *LatentTraits `json:"latent_traits,omitempty" yaml:"latent_traits,omitempty"`
}

// EffectiveTraits returns the synth's traits, or the neutral defaults when
// none are set.
func (s Synth) EffectiveTraits() LatentTraits {
	if s.Traits == nil {
		return DefaultLatentTraits()
	}
	return *s.Traits
}

// UserState is one sampled behavioral state for a single Monte Carlo trial.
// It is ephemeral: created fresh per execution and never persisted.
type UserState struct {
	Capability        float64
	Trust             float64
	FrictionTolerance float64
	Motivation        float64
	Explores          bool
}
