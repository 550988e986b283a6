package behavior

import (
	"math"
	"math/rand"
	"testing"

	"github.com/synthlab-io/synthlab/internal/models"
)

func TestSigmoid(t *testing.T) {
	if got := Sigmoid(0); got != 0.5 {
		t.Errorf("Sigmoid(0) = %v, want 0.5", got)
	}
	if got := Sigmoid(50); got <= 0.99 {
		t.Errorf("Sigmoid(50) = %v, want close to 1", got)
	}
	if got := Sigmoid(-50); got >= 0.01 {
		t.Errorf("Sigmoid(-50) = %v, want close to 0", got)
	}

	t.Run("symmetric", func(t *testing.T) {
		for _, x := range []float64{0.5, 1.7, 3.2, 10} {
			if diff := math.Abs(Sigmoid(x) + Sigmoid(-x) - 1); diff > 1e-12 {
				t.Errorf("Sigmoid(%v)+Sigmoid(-%v) != 1 (diff %v)", x, x, diff)
			}
		}
	})

	t.Run("monotonic", func(t *testing.T) {
		prev := Sigmoid(-5)
		for x := -4.5; x <= 5; x += 0.5 {
			cur := Sigmoid(x)
			if cur <= prev {
				t.Fatalf("not increasing at x=%v", x)
			}
			prev = cur
		}
	})
}

func TestAttemptProbability(t *testing.T) {
	state := models.UserState{Motivation: 0.5, Trust: 0.5}
	scorecard := models.ScorecardParams{PerceivedRisk: 0.5, InitialEffort: 0.5}

	base := AttemptProbability(state, scorecard)

	t.Run("risk lowers attempt", func(t *testing.T) {
		risky := scorecard
		risky.PerceivedRisk = 0.9
		if got := AttemptProbability(state, risky); got >= base {
			t.Errorf("higher risk should lower attempt probability: %v >= %v", got, base)
		}
	})

	t.Run("motivation raises attempt", func(t *testing.T) {
		eager := state
		eager.Motivation = 0.9
		if got := AttemptProbability(eager, scorecard); got <= base {
			t.Errorf("higher motivation should raise attempt probability: %v <= %v", got, base)
		}
	})

	t.Run("explorer bonus", func(t *testing.T) {
		explorer := state
		explorer.Explores = true
		if got := AttemptProbability(explorer, scorecard); got <= base {
			t.Errorf("exploring state should raise attempt probability: %v <= %v", got, base)
		}
	})
}

func TestSuccessProbability(t *testing.T) {
	state := models.UserState{Capability: 0.5, FrictionTolerance: 0.5}
	scorecard := models.ScorecardParams{Complexity: 0.5, TimeToValue: 0.5}

	base := SuccessProbability(state, scorecard)

	complex := scorecard
	complex.Complexity = 0.9
	if got := SuccessProbability(state, complex); got >= base {
		t.Errorf("higher complexity should lower success probability: %v >= %v", got, base)
	}

	capable := state
	capable.Capability = 0.95
	if got := SuccessProbability(capable, scorecard); got <= base {
		t.Errorf("higher capability should raise success probability: %v <= %v", got, base)
	}
}

func TestOutcomeProbabilities(t *testing.T) {
	for _, tc := range [][2]float64{{0.7, 0.4}, {0, 0.5}, {1, 1}, {0.33, 0.66}} {
		didNotTry, failed, success := OutcomeProbabilities(tc[0], tc[1])
		sum := didNotTry + failed + success
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("probabilities for (%v,%v) sum to %v", tc[0], tc[1], sum)
		}
		if didNotTry < 0 || failed < 0 || success < 0 {
			t.Errorf("negative probability for (%v,%v)", tc[0], tc[1])
		}
	}
}

func TestSampleOutcome(t *testing.T) {
	t.Run("deterministic extremes", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		if got := SampleOutcome(0, 1, rng); got != models.OutcomeDidNotTry {
			t.Errorf("pAttempt=0 should never try, got %s", got)
		}
		if got := SampleOutcome(1, 1, rng); got != models.OutcomeSuccess {
			t.Errorf("pAttempt=pSuccess=1 should succeed, got %s", got)
		}
		if got := SampleOutcome(1, 0, rng); got != models.OutcomeFailed {
			t.Errorf("pSuccess=0 attempt should fail, got %s", got)
		}
	})

	t.Run("frequencies track probabilities", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		const n = 20000
		counts := map[models.Outcome]int{}
		for i := 0; i < n; i++ {
			counts[SampleOutcome(0.7, 0.5, rng)]++
		}
		successRate := float64(counts[models.OutcomeSuccess]) / n
		if math.Abs(successRate-0.35) > 0.02 {
			t.Errorf("success rate %v, want ~0.35", successRate)
		}
		dntRate := float64(counts[models.OutcomeDidNotTry]) / n
		if math.Abs(dntRate-0.3) > 0.02 {
			t.Errorf("did-not-try rate %v, want ~0.30", dntRate)
		}
	})
}
