// Package montecarlo drives the trial loop: N synths times M executions
// through the behavior model, tallied into per-synth and population-level
// outcome rates.
package montecarlo

import (
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/synthlab-io/synthlab/internal/behavior"
	"github.com/synthlab-io/synthlab/internal/models"
)

// synthSeedStride separates per-synth random streams derived from the base
// seed. Any odd constant works; this is 0x9E3779B97F4A7C15 reinterpreted as
// a signed 64-bit value so the stride arithmetic stays in int64.
const synthSeedStride int64 = -0x61C8864680B583EB

// Config holds one engine run's parameters.
type Config struct {
	// NExecutions is the number of independent trials per synth.
	NExecutions int

	// Sigma is the state-sampling noise standard deviation.
	Sigma float64

	// Seed fixes the base random seed. Nil means a time-derived seed.
	Seed *int64

	// Workers caps the parallel per-synth workers. Zero means GOMAXPROCS.
	// Results are identical regardless of worker count: each synth draws
	// from its own seed-derived stream and aggregation is an order-
	// independent mean.
	Workers int
}

// Engine runs Monte Carlo simulations over a synth population.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger}
}

// RunSimulation simulates every synth for cfg.NExecutions trials against the
// scorecard under the scenario modifiers, and returns per-synth rates plus
// the population aggregate (arithmetic mean of per-synth rates). Rates are
// rounded to three decimals.
//
// Output is deterministic given the same synth order, scorecard, scenario,
// NExecutions, and seed. Running time is linear in synths x executions.
func (e *Engine) RunSimulation(synths []models.Synth, scorecard models.ScorecardParams, scenario models.ScenarioModifiers, cfg Config) (*models.SimulationResults, error) {
	if len(synths) == 0 {
		return nil, fmt.Errorf("%w: at least one synth is required", models.ErrValidation)
	}
	if cfg.NExecutions <= 0 {
		return nil, fmt.Errorf("%w: n_executions must be positive, got %d", models.ErrValidation, cfg.NExecutions)
	}
	if cfg.Sigma < 0 {
		return nil, fmt.Errorf("%w: sigma must be non-negative, got %v", models.ErrValidation, cfg.Sigma)
	}
	if err := scorecard.Validate(); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	baseSeed := resolveSeed(cfg.Seed)
	start := time.Now()

	perSynth := make([]models.SynthResult, len(synths))
	runOne := func(i int) {
		synth := synths[i]
		// Each synth gets its own stream so parallel execution order
		// cannot change the draws any synth sees.
		rng := rand.New(rand.NewSource(baseSeed + int64(i)*synthSeedStride))
		perSynth[i] = models.SynthResult{
			SynthID: synth.ID,
			Rates:   simulateSynth(synth, scorecard, scenario, cfg.NExecutions, cfg.Sigma, rng),
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers <= 1 || len(synths) == 1 {
		for i := range synths {
			runOne(i)
		}
	} else {
		var wg sync.WaitGroup
		jobs := make(chan int)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					runOne(i)
				}
			}()
		}
		for i := range synths {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	results := &models.SimulationResults{
		PerSynth:             perSynth,
		Aggregate:            aggregate(perSynth),
		TotalSynths:          len(synths),
		NExecutions:          cfg.NExecutions,
		ExecutionTimeSeconds: time.Since(start).Seconds(),
	}

	e.logger.Debug("simulation complete",
		"synths", results.TotalSynths,
		"executions", results.NExecutions,
		"success_rate", results.Aggregate.SuccessRate,
		"elapsed", time.Since(start))

	return results, nil
}

// simulateSynth runs nExecutions independent trials for one synth and
// converts the tally to rounded rates.
func simulateSynth(synth models.Synth, scorecard models.ScorecardParams, scenario models.ScenarioModifiers, nExecutions int, sigma float64, rng *rand.Rand) models.OutcomeRates {
	traits := synth.EffectiveTraits()

	var didNotTry, failed, success int
	for i := 0; i < nExecutions; i++ {
		state := behavior.SampleState(traits, scenario, sigma, rng)
		pAttempt := behavior.AttemptProbability(state, scorecard)
		pSuccess := behavior.SuccessProbability(state, scorecard)
		switch behavior.SampleOutcome(pAttempt, pSuccess, rng) {
		case models.OutcomeDidNotTry:
			didNotTry++
		case models.OutcomeFailed:
			failed++
		default:
			success++
		}
	}

	n := float64(nExecutions)
	return models.OutcomeRates{
		DidNotTryRate: float64(didNotTry) / n,
		FailedRate:    float64(failed) / n,
		SuccessRate:   float64(success) / n,
	}.Rounded()
}

// aggregate returns the arithmetic mean of per-synth rates, rounded to three
// decimals. The mean is order-independent, which is what keeps parallel
// execution deterministic.
func aggregate(perSynth []models.SynthResult) models.OutcomeRates {
	var sum models.OutcomeRates
	for _, r := range perSynth {
		sum.DidNotTryRate += r.Rates.DidNotTryRate
		sum.FailedRate += r.Rates.FailedRate
		sum.SuccessRate += r.Rates.SuccessRate
	}
	n := float64(len(perSynth))
	return models.OutcomeRates{
		DidNotTryRate: sum.DidNotTryRate / n,
		FailedRate:    sum.FailedRate / n,
		SuccessRate:   sum.SuccessRate / n,
	}.Rounded()
}

// resolveSeed returns the configured seed or a time-derived one.
func resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return time.Now().UnixNano()
}
