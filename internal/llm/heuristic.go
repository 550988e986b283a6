package llm

import (
	"context"
	"fmt"
	"sort"

	"github.com/synthlab-io/synthlab/internal/exploration"
	"github.com/synthlab-io/synthlab/internal/models"
)

// heuristicDelta is the per-dimension improvement each rule-based proposal
// applies. Small enough to leave room for several rounds of refinement.
const heuristicDelta = -0.05

// heuristicActions maps each dimension to a canned product action.
var heuristicActions = map[string]models.ActionProposal{
	models.DimComplexity: {
		Action:      "Simplify the feature surface: remove secondary options from the primary flow and move them behind an advanced panel",
		ShortAction: "Simplify primary flow",
		Category:    "ux",
		Rationale:   "Complexity is the largest drag on success among the current dimensions",
	},
	models.DimInitialEffort: {
		Action:      "Prefill setup with sensible defaults so the feature works on first use without configuration",
		ShortAction: "Zero-config first use",
		Category:    "onboarding",
		Rationale:   "Lower initial effort raises the share of users who try at all",
	},
	models.DimPerceivedRisk: {
		Action:      "Add an explicit undo and a preview step so users can see consequences before committing",
		ShortAction: "Add undo and preview",
		Category:    "trust",
		Rationale:   "Perceived risk suppresses attempts; reversibility addresses it directly",
	},
	models.DimTimeToValue: {
		Action:      "Surface a quick win within the first session, before any long-running processing completes",
		ShortAction: "Faster first win",
		Category:    "performance",
		Rationale:   "Shorter time to value keeps attempted uses from being abandoned",
	},
}

// HeuristicProposer is the rule-based fallback generator: deterministic,
// offline, and always available. It proposes reducing the currently worst
// scorecard dimensions by a fixed delta, worst first. Useful for tests and
// for running explorations without any API credentials.
type HeuristicProposer struct{}

// NewHeuristicProposer creates the rule-based fallback proposer.
func NewHeuristicProposer() *HeuristicProposer {
	return &HeuristicProposer{}
}

// Propose returns up to hint.MaxProposals single-dimension improvements,
// ordered by how bad each dimension currently is. Dimensions already at 0
// have nothing left to improve and are skipped; a node with a perfect
// scorecard yields no proposals.
func (p *HeuristicProposer) Propose(ctx context.Context, node models.ScenarioNode, hint exploration.BudgetHint) ([]models.ActionProposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type scored struct {
		dim   string
		value float64
	}
	dims := make([]scored, 0, 4)
	for _, dim := range models.Dimensions() {
		v, _ := node.ScorecardParams.Get(dim)
		if v > 0 {
			dims = append(dims, scored{dim: dim, value: v})
		}
	}
	sort.SliceStable(dims, func(i, j int) bool { return dims[i].value > dims[j].value })

	max := hint.MaxProposals
	if max <= 0 || max > len(dims) {
		max = len(dims)
	}

	proposals := make([]models.ActionProposal, 0, max)
	for _, d := range dims[:max] {
		proposal := heuristicActions[d.dim]
		proposal.Rationale = fmt.Sprintf("%s (current %s: %.2f)", proposal.Rationale, d.dim, d.value)
		proposal.Impacts = map[string]float64{d.dim: heuristicDelta}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}

// Available always returns true; the heuristic needs no credentials.
func (p *HeuristicProposer) Available() bool {
	return true
}
