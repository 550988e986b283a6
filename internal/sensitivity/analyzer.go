// Package sensitivity implements One-At-a-Time (OAT) analysis: each
// scorecard dimension is perturbed in isolation and the marginal effect on
// the simulated success rate ranks the dimensions.
package sensitivity

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/synthlab-io/synthlab/internal/models"
	"github.com/synthlab-io/synthlab/internal/montecarlo"
)

// DefaultDeltas are the perturbation magnitudes tested when the caller does
// not supply any. Each magnitude is applied in both directions.
var DefaultDeltas = []float64{0.05, 0.10}

// Request bundles the inputs for one analysis.
type Request struct {
	// Synths is the population to simulate against.
	Synths []models.Synth

	// Baseline is the scorecard under analysis. Nil means the caller could
	// not resolve one; analysis fails with ErrNotFound.
	Baseline *models.ScorecardParams

	// Scenario holds the modifiers active for every run.
	Scenario models.ScenarioModifiers

	// Run configures the engine. The seed is resolved once and shared by
	// the baseline and every perturbed run, so rate differences isolate the
	// dimension change from sampling noise.
	Run montecarlo.Config

	// Deltas are the perturbation magnitudes. Empty means DefaultDeltas.
	Deltas []float64
}

// Analyzer runs OAT sensitivity analyses.
type Analyzer struct {
	engine *montecarlo.Engine
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer backed by the given engine.
// A nil logger disables logging.
func NewAnalyzer(engine *montecarlo.Engine, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{engine: engine, logger: logger}
}

// Analyze perturbs each scorecard dimension independently, holding the other
// three at baseline, re-simulates with the shared seed, and ranks dimensions
// by sensitivity index: the largest |%change in success rate| per |%change
// in input| over the tested deltas. Rank 1 is the most sensitive; ties break
// by canonical dimension order.
//
// A perturbed run that fails is logged and substituted with the baseline
// outcome for that delta, so one bad delta cannot abort the whole analysis.
func (a *Analyzer) Analyze(req Request) (*models.SensitivityResult, error) {
	if req.Baseline == nil {
		return nil, fmt.Errorf("%w: baseline scorecard", models.ErrNotFound)
	}
	baseline := *req.Baseline
	if err := baseline.Validate(); err != nil {
		return nil, err
	}

	deltas := req.Deltas
	if len(deltas) == 0 {
		deltas = DefaultDeltas
	}
	for _, d := range deltas {
		if d <= 0 || d > 1 {
			return nil, fmt.Errorf("%w: delta magnitudes must be in (0,1], got %v", models.ErrValidation, d)
		}
	}

	// Pin the seed so every run, baseline included, shares it.
	run := req.Run
	if run.Seed == nil {
		seed := resolveSeed()
		run.Seed = &seed
	}

	baselineResults, err := a.engine.RunSimulation(req.Synths, baseline, req.Scenario, run)
	if err != nil {
		return nil, fmt.Errorf("baseline simulation: %w", err)
	}
	baselineSuccess := baselineResults.Aggregate.SuccessRate

	dims := make([]models.DimensionSensitivity, 0, 4)
	for _, dim := range models.Dimensions() {
		dims = append(dims, a.analyzeDimension(dim, baseline, baselineResults.Aggregate, deltas, req, run))
	}

	ranked := rankDimensions(dims)

	return &models.SensitivityResult{
		Dimensions:             ranked,
		BaselineSuccess:        baselineSuccess,
		DeltasUsed:             deltas,
		MostSensitiveDimension: ranked[0].Dimension,
	}, nil
}

// analyzeDimension tests every signed delta for one dimension and computes
// its sensitivity index.
func (a *Analyzer) analyzeDimension(dim string, baseline models.ScorecardParams, baselineRates models.OutcomeRates, deltas []float64, req Request, run montecarlo.Config) models.DimensionSensitivity {
	baselineValue, _ := baseline.Get(dim)
	baselineSuccess := baselineRates.SuccessRate

	signed := make([]float64, 0, 2*len(deltas))
	for _, d := range deltas {
		signed = append(signed, -d, d)
	}

	outcomes := make(map[string]models.OutcomeRates, len(signed))
	index := 0.0
	for _, delta := range signed {
		key := models.DeltaKey(delta)
		modified := baseline.With(dim, baselineValue+delta)
		newValue, _ := modified.Get(dim)
		if newValue == baselineValue {
			// Clamping swallowed the whole delta; nothing to measure.
			continue
		}

		rates := baselineRates
		results, err := a.engine.RunSimulation(req.Synths, modified, req.Scenario, run)
		if err != nil {
			// One bad delta must not abort the ranking; fall back to the
			// baseline outcome for this delta.
			a.logger.Warn("perturbed simulation failed, substituting baseline outcome",
				"dimension", dim, "delta", key, "error", err)
		} else {
			rates = results.Aggregate
		}
		outcomes[key] = rates

		inputPct := math.Abs(delta) * 100
		if inputPct == 0 || baselineSuccess == 0 {
			continue
		}
		outputPct := math.Abs((rates.SuccessRate - baselineSuccess) / baselineSuccess * 100)
		if ratio := outputPct / inputPct; ratio > index {
			index = ratio
		}
	}

	return models.DimensionSensitivity{
		Dimension:        dim,
		BaselineValue:    baselineValue,
		DeltasTested:     signed,
		OutcomesByDelta:  outcomes,
		SensitivityIndex: index,
	}
}

// resolveSeed derives a seed for analyses that did not fix one. All runs of
// the analysis still share it.
func resolveSeed() int64 {
	return time.Now().UnixNano()
}

// rankDimensions sorts descending by sensitivity index and assigns ranks
// 1..n. The input arrives in canonical dimension order and the sort is
// stable, so ties keep that order.
func rankDimensions(dims []models.DimensionSensitivity) []models.DimensionSensitivity {
	ranked := make([]models.DimensionSensitivity, len(dims))
	copy(ranked, dims)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SensitivityIndex > ranked[j].SensitivityIndex
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
