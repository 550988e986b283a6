package population

import (
	"fmt"
	"math/rand"

	"github.com/synthlab-io/synthlab/internal/models"
)

// Archetype is a named trait profile that generated synths cluster around.
type Archetype struct {
	Name   string
	Traits models.LatentTraits
	Weight float64 // share of the generated population
}

// DefaultArchetypes returns the built-in persona mix used by Generate when
// the caller supplies none.
func DefaultArchetypes() []Archetype {
	return []Archetype{
		{
			Name: "novice",
			Traits: models.LatentTraits{
				CapabilityMean:        0.3,
				TrustMean:             0.5,
				FrictionToleranceMean: 0.35,
				ExplorationProb:       0.2,
			},
			Weight: 0.35,
		},
		{
			Name: "power-user",
			Traits: models.LatentTraits{
				CapabilityMean:        0.85,
				TrustMean:             0.7,
				FrictionToleranceMean: 0.75,
				ExplorationProb:       0.6,
			},
			Weight: 0.2,
		},
		{
			Name: "skeptic",
			Traits: models.LatentTraits{
				CapabilityMean:        0.6,
				TrustMean:             0.25,
				FrictionToleranceMean: 0.4,
				ExplorationProb:       0.15,
			},
			Weight: 0.25,
		},
		{
			Name: "explorer",
			Traits: models.LatentTraits{
				CapabilityMean:        0.55,
				TrustMean:             0.6,
				FrictionToleranceMean: 0.6,
				ExplorationProb:       0.8,
			},
			Weight: 0.2,
		},
	}
}

// archetypeJitter is the spread of generated trait means around each
// archetype's profile.
const archetypeJitter = 0.08

// Generate produces n synths drawn from the archetype mix, deterministic
// for a given seed. Trait means are jittered around each archetype's
// profile and clamped to [0,1].
func Generate(n int, archetypes []Archetype, seed int64) ([]models.Synth, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: population size must be positive, got %d", models.ErrValidation, n)
	}
	if len(archetypes) == 0 {
		archetypes = DefaultArchetypes()
	}

	totalWeight := 0.0
	for _, a := range archetypes {
		if a.Weight <= 0 {
			return nil, fmt.Errorf("%w: archetype %s has non-positive weight", models.ErrValidation, a.Name)
		}
		totalWeight += a.Weight
	}

	rng := rand.New(rand.NewSource(seed))
	synths := make([]models.Synth, 0, n)
	for i := 0; i < n; i++ {
		a := pickArchetype(archetypes, totalWeight, rng)
		traits := models.LatentTraits{
			CapabilityMean:        jitter(a.Traits.CapabilityMean, rng),
			TrustMean:             jitter(a.Traits.TrustMean, rng),
			FrictionToleranceMean: jitter(a.Traits.FrictionToleranceMean, rng),
			ExplorationProb:       jitter(a.Traits.ExplorationProb, rng),
		}
		synths = append(synths, models.Synth{
			ID:     fmt.Sprintf("synth-%03d", i+1),
			Name:   fmt.Sprintf("%s-%03d", a.Name, i+1),
			Traits: &traits,
		})
	}
	return synths, nil
}

func pickArchetype(archetypes []Archetype, totalWeight float64, rng *rand.Rand) Archetype {
	r := rng.Float64() * totalWeight
	for _, a := range archetypes {
		r -= a.Weight
		if r < 0 {
			return a
		}
	}
	return archetypes[len(archetypes)-1]
}

func jitter(mean float64, rng *rand.Rand) float64 {
	return models.Clamp01(mean + rng.NormFloat64()*archetypeJitter)
}
