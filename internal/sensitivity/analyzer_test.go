package sensitivity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/synthlab-io/synthlab/internal/models"
	"github.com/synthlab-io/synthlab/internal/montecarlo"
)

func analysisSynths() []models.Synth {
	traits := []models.LatentTraits{
		{CapabilityMean: 0.3, TrustMean: 0.5, FrictionToleranceMean: 0.35, ExplorationProb: 0.2},
		{CapabilityMean: 0.85, TrustMean: 0.7, FrictionToleranceMean: 0.75, ExplorationProb: 0.6},
		{CapabilityMean: 0.6, TrustMean: 0.25, FrictionToleranceMean: 0.4, ExplorationProb: 0.15},
		{CapabilityMean: 0.55, TrustMean: 0.6, FrictionToleranceMean: 0.6, ExplorationProb: 0.8},
	}
	synths := make([]models.Synth, len(traits))
	for i := range traits {
		synths[i] = models.Synth{ID: fmt.Sprintf("synth-%03d", i+1), Traits: &traits[i]}
	}
	return synths
}

func seedPtr(s int64) *int64 { return &s }

func TestAnalyzer_Analyze(t *testing.T) {
	analyzer := NewAnalyzer(montecarlo.NewEngine(nil), nil)
	baseline := models.ScorecardParams{Complexity: 0.45, InitialEffort: 0.30, PerceivedRisk: 0.25, TimeToValue: 0.40}

	result, err := analyzer.Analyze(Request{
		Synths:   analysisSynths(),
		Baseline: &baseline,
		Run:      montecarlo.Config{NExecutions: 300, Sigma: 0.1, Seed: seedPtr(42)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Dimensions) != 4 {
		t.Fatalf("expected 4 dimensions, got %d", len(result.Dimensions))
	}

	t.Run("ranks are 1..4 and ordered by index", func(t *testing.T) {
		seen := map[int]bool{}
		for i, dim := range result.Dimensions {
			if dim.Rank != i+1 {
				t.Errorf("dimension %s at position %d has rank %d", dim.Dimension, i, dim.Rank)
			}
			if seen[dim.Rank] {
				t.Errorf("duplicate rank %d", dim.Rank)
			}
			seen[dim.Rank] = true
			if i > 0 && dim.SensitivityIndex > result.Dimensions[i-1].SensitivityIndex {
				t.Errorf("ranking not descending at position %d", i)
			}
			if dim.SensitivityIndex < 0 {
				t.Errorf("negative sensitivity index for %s", dim.Dimension)
			}
		}
	})

	t.Run("most sensitive matches rank 1", func(t *testing.T) {
		if result.MostSensitiveDimension != result.Dimensions[0].Dimension {
			t.Errorf("MostSensitiveDimension = %s, rank 1 is %s",
				result.MostSensitiveDimension, result.Dimensions[0].Dimension)
		}
	})

	t.Run("default deltas applied in both directions", func(t *testing.T) {
		if len(result.DeltasUsed) != 2 {
			t.Fatalf("DeltasUsed = %v", result.DeltasUsed)
		}
		for _, dim := range result.Dimensions {
			if len(dim.DeltasTested) != 4 {
				t.Errorf("%s: tested %d signed deltas, want 4", dim.Dimension, len(dim.DeltasTested))
			}
		}
	})

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		again, err := analyzer.Analyze(Request{
			Synths:   analysisSynths(),
			Baseline: &baseline,
			Run:      montecarlo.Config{NExecutions: 300, Sigma: 0.1, Seed: seedPtr(42)},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.BaselineSuccess != result.BaselineSuccess {
			t.Errorf("baseline success differs: %v vs %v", again.BaselineSuccess, result.BaselineSuccess)
		}
		for i := range result.Dimensions {
			if again.Dimensions[i].SensitivityIndex != result.Dimensions[i].SensitivityIndex {
				t.Errorf("index for %s differs across runs", result.Dimensions[i].Dimension)
			}
		}
	})
}

func TestAnalyzer_MissingBaseline(t *testing.T) {
	analyzer := NewAnalyzer(montecarlo.NewEngine(nil), nil)
	_, err := analyzer.Analyze(Request{Synths: analysisSynths()})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalyzer_InvalidDeltas(t *testing.T) {
	analyzer := NewAnalyzer(montecarlo.NewEngine(nil), nil)
	baseline := models.ScorecardParams{Complexity: 0.5, InitialEffort: 0.5, PerceivedRisk: 0.5, TimeToValue: 0.5}

	for _, deltas := range [][]float64{{0}, {-0.05}, {1.5}} {
		_, err := analyzer.Analyze(Request{
			Synths:   analysisSynths(),
			Baseline: &baseline,
			Run:      montecarlo.Config{NExecutions: 50, Seed: seedPtr(1)},
			Deltas:   deltas,
		})
		if !errors.Is(err, models.ErrValidation) {
			t.Errorf("deltas %v: expected ErrValidation, got %v", deltas, err)
		}
	}
}

func TestAnalyzer_ClampSwallowedDeltas(t *testing.T) {
	analyzer := NewAnalyzer(montecarlo.NewEngine(nil), nil)
	// Complexity at 0: the negative perturbations clamp back to 0 and must
	// be skipped instead of measured as a zero-effect run.
	baseline := models.ScorecardParams{Complexity: 0, InitialEffort: 0.5, PerceivedRisk: 0.5, TimeToValue: 0.5}

	result, err := analyzer.Analyze(Request{
		Synths:   analysisSynths(),
		Baseline: &baseline,
		Run:      montecarlo.Config{NExecutions: 100, Sigma: 0.1, Seed: seedPtr(9)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, dim := range result.Dimensions {
		if dim.Dimension != models.DimComplexity {
			continue
		}
		for _, delta := range []float64{-0.05, -0.10} {
			if _, ok := dim.OutcomesByDelta[models.DeltaKey(delta)]; ok {
				t.Errorf("swallowed delta %v should have no outcome entry", delta)
			}
		}
		for _, delta := range []float64{0.05, 0.10} {
			if _, ok := dim.OutcomesByDelta[models.DeltaKey(delta)]; !ok {
				t.Errorf("positive delta %v missing outcome entry", delta)
			}
		}
	}
}
