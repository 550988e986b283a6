package models

// MaxImpactDelta bounds the per-dimension delta accepted from a proposal
// generator. Out-of-range values are clamped, not rejected: the generator
// is a black box and its suggestions are advisory, not authoritative.
const MaxImpactDelta = 0.3

// ActionProposal is one scorecard modification suggested by the external
// proposal generator. Impacts maps dimension names to signed deltas.
type ActionProposal struct {
	Action      string             `json:"action" yaml:"action"`
	ShortAction string             `json:"short_action" yaml:"short_action"`
	Category    string             `json:"category" yaml:"category"`
	Rationale   string             `json:"rationale" yaml:"rationale"`
	Impacts     map[string]float64 `json:"impacts" yaml:"impacts"`
}

// ClampedImpacts returns a copy of the impacts map with every delta clamped
// to [-MaxImpactDelta, MaxImpactDelta] and unknown dimensions dropped.
func (p ActionProposal) ClampedImpacts() map[string]float64 {
	out := make(map[string]float64, len(p.Impacts))
	for dim, delta := range p.Impacts {
		if _, ok := (ScorecardParams{}).Get(dim); !ok {
			continue
		}
		if delta > MaxImpactDelta {
			delta = MaxImpactDelta
		} else if delta < -MaxImpactDelta {
			delta = -MaxImpactDelta
		}
		out[dim] = delta
	}
	return out
}
