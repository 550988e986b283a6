package models

import (
	"errors"
	"testing"
)

func TestScorecardParams_GetWith(t *testing.T) {
	s := ScorecardParams{Complexity: 0.3, InitialEffort: 0.4, PerceivedRisk: 0.5, TimeToValue: 0.6}

	t.Run("get known dimensions", func(t *testing.T) {
		for _, tc := range []struct {
			dim  string
			want float64
		}{
			{DimComplexity, 0.3},
			{DimInitialEffort, 0.4},
			{DimPerceivedRisk, 0.5},
			{DimTimeToValue, 0.6},
		} {
			got, ok := s.Get(tc.dim)
			if !ok {
				t.Errorf("Get(%s): not ok", tc.dim)
			}
			if got != tc.want {
				t.Errorf("Get(%s) = %v, want %v", tc.dim, got, tc.want)
			}
		}
	})

	t.Run("get unknown dimension", func(t *testing.T) {
		if _, ok := s.Get("velocity"); ok {
			t.Error("expected unknown dimension to return false")
		}
	})

	t.Run("with clamps to range", func(t *testing.T) {
		if got := s.With(DimComplexity, 1.7).Complexity; got != 1.0 {
			t.Errorf("With above range = %v, want 1.0", got)
		}
		if got := s.With(DimComplexity, -0.2).Complexity; got != 0.0 {
			t.Errorf("With below range = %v, want 0.0", got)
		}
	})

	t.Run("with does not mutate receiver", func(t *testing.T) {
		_ = s.With(DimComplexity, 0.9)
		if s.Complexity != 0.3 {
			t.Errorf("receiver mutated: Complexity = %v", s.Complexity)
		}
	})
}

func TestScorecardParams_ApplyImpacts(t *testing.T) {
	s := ScorecardParams{Complexity: 0.45, InitialEffort: 0.30, PerceivedRisk: 0.25, TimeToValue: 0.40}

	got := s.ApplyImpacts(map[string]float64{
		DimComplexity:  -0.02,
		DimTimeToValue: -0.02,
		"unknown_dim":  0.5,
	})

	if got.Complexity != 0.43 {
		t.Errorf("Complexity = %v, want 0.43", got.Complexity)
	}
	if got.TimeToValue != 0.38 {
		t.Errorf("TimeToValue = %v, want 0.38", got.TimeToValue)
	}
	if got.InitialEffort != 0.30 || got.PerceivedRisk != 0.25 {
		t.Error("untouched dimensions changed")
	}

	t.Run("clamps each result", func(t *testing.T) {
		got := s.ApplyImpacts(map[string]float64{DimPerceivedRisk: -0.9})
		if got.PerceivedRisk != 0 {
			t.Errorf("PerceivedRisk = %v, want 0", got.PerceivedRisk)
		}
	})
}

func TestScorecardParams_Validate(t *testing.T) {
	valid := ScorecardParams{Complexity: 0, InitialEffort: 1, PerceivedRisk: 0.5, TimeToValue: 0.5}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := valid
	bad.TimeToValue = 1.1
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected error for out-of-range value")
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestScenarioModifiers_Validate(t *testing.T) {
	ok := ScenarioModifiers{TrustModifier: -0.3, TaskCriticality: 0.8}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := ScenarioModifiers{TaskCriticality: 1.5}
	if err := bad.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestRound3(t *testing.T) {
	if got := Round3(0.123456); got != 0.123 {
		t.Errorf("Round3(0.123456) = %v", got)
	}
	if got := Round3(0.6665); got != 0.667 {
		t.Errorf("Round3(0.6665) = %v", got)
	}
}
