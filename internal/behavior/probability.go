// Package behavior implements the probabilistic user model: state sampling
// from latent traits and the two-stage attempt/success outcome model.
package behavior

import (
	"math"
	"math/rand"

	"github.com/synthlab-io/synthlab/internal/models"
)

// Attempt-stage weights. Motivation and trust push a user toward trying the
// feature; perceived risk and upfront effort push away. Exploration adds a
// flat bonus when the sampled state explores.
const (
	attemptMotivationWeight = 2.0
	attemptTrustWeight      = 1.5
	attemptRiskWeight       = -2.0
	attemptEffortWeight     = -1.5
	attemptExploreBonus     = 1.0
)

// Success-stage weights. Capability and friction tolerance carry the user
// through; complexity and slow time to value drag the attempt down.
const (
	successCapabilityWeight = 2.5
	successToleranceWeight  = 1.5
	successComplexityWeight = -2.0
	successTimeToValueWeight = -1.5
)

// Sigmoid is the logistic function 1/(1+e^-x). For large negative x the
// exp form below avoids overflow; inputs produced by the weighted sums here
// stay well within float64 range either way.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// AttemptProbability returns the probability that a user in the given state
// tries the feature described by the scorecard.
func AttemptProbability(state models.UserState, scorecard models.ScorecardParams) float64 {
	x := attemptMotivationWeight*state.Motivation +
		attemptTrustWeight*state.Trust +
		attemptRiskWeight*scorecard.PerceivedRisk +
		attemptEffortWeight*scorecard.InitialEffort
	if state.Explores {
		x += attemptExploreBonus
	}
	return Sigmoid(x)
}

// SuccessProbability returns the probability that an attempted use succeeds.
func SuccessProbability(state models.UserState, scorecard models.ScorecardParams) float64 {
	x := successCapabilityWeight*state.Capability +
		successToleranceWeight*state.FrictionTolerance +
		successComplexityWeight*scorecard.Complexity +
		successTimeToValueWeight*scorecard.TimeToValue
	return Sigmoid(x)
}

// OutcomeProbabilities decomposes an (attempt, success) probability pair
// into the three terminal outcome probabilities. They sum to exactly 1 for
// any valid pair:
//
//	P(did_not_try) = 1 - pAttempt
//	P(failed)      = pAttempt * (1 - pSuccess)
//	P(success)     = pAttempt * pSuccess
func OutcomeProbabilities(pAttempt, pSuccess float64) (didNotTry, failed, success float64) {
	didNotTry = 1 - pAttempt
	failed = pAttempt * (1 - pSuccess)
	success = pAttempt * pSuccess
	return didNotTry, failed, success
}

// SampleOutcome draws one outcome from the two-stage Bernoulli model: first
// whether the user attempts at all, then whether the attempt succeeds.
func SampleOutcome(pAttempt, pSuccess float64, rng *rand.Rand) models.Outcome {
	if rng.Float64() >= pAttempt {
		return models.OutcomeDidNotTry
	}
	if rng.Float64() >= pSuccess {
		return models.OutcomeFailed
	}
	return models.OutcomeSuccess
}
