package exploration

import (
	"context"

	"github.com/synthlab-io/synthlab/internal/models"
)

// BudgetHint tells the proposal generator how much room the search has
// left, so it can size and target its suggestions.
type BudgetHint struct {
	// RemainingCalls is how many generator requests the budget still allows.
	RemainingCalls int

	// RemainingDepth is how many levels below this node the search may go.
	RemainingDepth int

	// MaxProposals caps the proposals the controller will use from this call.
	MaxProposals int

	// GoalValue is the success-rate target.
	GoalValue float64

	// BestSuccessRate is the best rate observed anywhere in the tree so far.
	BestSuccessRate float64
}

// Proposer supplies scorecard modifications for a scenario node. It is the
// single seam between the search and the LLM (or any other generator): the
// controller treats it strictly as a black box returning zero or more
// validated proposals. Implementations must honor ctx cancellation; a
// cancelled or failed call costs the round that node's expansion, never the
// exploration.
type Proposer interface {
	Propose(ctx context.Context, node models.ScenarioNode, hint BudgetHint) ([]models.ActionProposal, error)
}
