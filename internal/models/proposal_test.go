package models

import "testing"

func TestActionProposal_ClampedImpacts(t *testing.T) {
	p := ActionProposal{
		Action: "Simplify the onboarding flow",
		Impacts: map[string]float64{
			DimComplexity:    -0.5,
			DimInitialEffort: 0.45,
			DimTimeToValue:   -0.1,
			"brand_appeal":   -0.2,
		},
	}

	got := p.ClampedImpacts()

	if got[DimComplexity] != -MaxImpactDelta {
		t.Errorf("complexity = %v, want %v", got[DimComplexity], -MaxImpactDelta)
	}
	if got[DimInitialEffort] != MaxImpactDelta {
		t.Errorf("initial_effort = %v, want %v", got[DimInitialEffort], MaxImpactDelta)
	}
	if got[DimTimeToValue] != -0.1 {
		t.Errorf("time_to_value = %v, want -0.1", got[DimTimeToValue])
	}
	if _, ok := got["brand_appeal"]; ok {
		t.Error("unknown dimension should be dropped")
	}

	// Original map untouched.
	if p.Impacts[DimComplexity] != -0.5 {
		t.Error("ClampedImpacts mutated the original map")
	}
}

func TestSynth_EffectiveTraits(t *testing.T) {
	noTraits := Synth{ID: "s1"}
	if got := noTraits.EffectiveTraits(); got != DefaultLatentTraits() {
		t.Errorf("nil traits should fall back to defaults, got %+v", got)
	}

	custom := LatentTraits{CapabilityMean: 0.9, TrustMean: 0.1, FrictionToleranceMean: 0.4, ExplorationProb: 0.7}
	withTraits := Synth{ID: "s2", Traits: &custom}
	if got := withTraits.EffectiveTraits(); got != custom {
		t.Errorf("explicit traits not returned, got %+v", got)
	}
}
