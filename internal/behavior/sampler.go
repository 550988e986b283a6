package behavior

import (
	"math/rand"

	"github.com/synthlab-io/synthlab/internal/models"
)

// SampleState draws one noisy user state from a synth's latent trait means
// under the active scenario modifiers. Each continuous trait is a Gaussian
// draw with standard deviation sigma centered on the (modifier-shifted)
// mean, clamped to [0,1]. Explores is a Bernoulli draw on the synth's
// exploration probability.
//
// The random source is injected so a fixed seed makes every downstream
// result reproducible; no function in this package touches global random
// state.
func SampleState(traits models.LatentTraits, mods models.ScenarioModifiers, sigma float64, rng *rand.Rand) models.UserState {
	return models.UserState{
		Capability:        sampleTrait(traits.CapabilityMean, 0, sigma, rng),
		Trust:             sampleTrait(traits.TrustMean, mods.TrustModifier, sigma, rng),
		FrictionTolerance: sampleTrait(traits.FrictionToleranceMean, mods.FrictionModifier, sigma, rng),
		Motivation:        sampleTrait(0.5, mods.MotivationModifier, sigma, rng),
		Explores:          rng.Float64() < traits.ExplorationProb,
	}
}

// sampleTrait draws a Gaussian around mean+offset and clamps to [0,1].
func sampleTrait(mean, offset, sigma float64, rng *rand.Rand) float64 {
	return models.Clamp01(mean + offset + rng.NormFloat64()*sigma)
}
