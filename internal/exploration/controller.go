package exploration

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/synthlab-io/synthlab/internal/logging"
	"github.com/synthlab-io/synthlab/internal/models"
	"github.com/synthlab-io/synthlab/internal/montecarlo"
)

// Controller drives the beam search: rank the frontier, request proposals
// for the best nodes, simulate the resulting children, and stop at the
// first terminal condition. It is a state machine over Exploration.Status;
// each Tick is one expansion round, so cancellation and resumption need no
// special casing inside the loop.
type Controller struct {
	engine   *montecarlo.Engine
	proposer Proposer
	logger   *slog.Logger
	trace    *logging.TraceLogger
}

// NewController creates a controller. A nil logger disables logging; a nil
// trace logger disables run tracing.
func NewController(engine *montecarlo.Engine, proposer Proposer, logger *slog.Logger, trace *logging.TraceLogger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{engine: engine, proposer: proposer, logger: logger, trace: trace}
}

// StartParams seeds one exploration run. Baseline and BaselineOutcomes come
// from an already-completed analysis; the root node is never re-simulated.
type StartParams struct {
	ExperimentID       string
	BaselineAnalysisID string
	Goal               models.Goal
	Config             models.ExplorationConfig
	Synths             []models.Synth
	Scenario           models.ScenarioModifiers
	Baseline           *models.ScorecardParams
	BaselineOutcomes   *models.SimulationResults
}

// Run is an in-flight exploration: the Exploration record, its tree, and
// the solution node once the goal is achieved.
type Run struct {
	Exploration models.Exploration
	Tree        *Tree
	Solution    *models.ScenarioNode

	controller *Controller
	synths     []models.Synth
	scenario   models.ScenarioModifiers
}

// Start validates the goal and config, seeds the tree with the baseline
// root, and returns a Run in RUNNING state (or already GOAL_ACHIEVED when
// the baseline itself satisfies the goal). Validation failures surface
// before any simulation work.
func (c *Controller) Start(params StartParams) (*Run, error) {
	if err := params.Goal.Validate(); err != nil {
		return nil, err
	}
	if err := params.Config.Validate(); err != nil {
		return nil, err
	}
	if len(params.Synths) == 0 {
		return nil, fmt.Errorf("%w: exploration requires at least one synth", models.ErrValidation)
	}

	exp := models.Exploration{
		ID:                 uuid.NewString(),
		ExperimentID:       params.ExperimentID,
		BaselineAnalysisID: params.BaselineAnalysisID,
		Goal:               params.Goal,
		Config:             params.Config,
		Status:             models.StatusRunning,
		StartedAt:          time.Now(),
	}

	tree := NewTree(exp.ID)
	root, err := tree.CreateRoot(params.Baseline, params.BaselineOutcomes)
	if err != nil {
		return nil, err
	}

	exp.TotalNodes = 1
	exp.BestSuccessRate = root.SuccessRate()

	run := &Run{
		Exploration: exp,
		Tree:        tree,
		controller:  c,
		synths:      params.Synths,
		scenario:    params.Scenario,
	}

	if params.Goal.IsAchieved(root.SuccessRate()) {
		run.Solution = &root
		if err := run.Exploration.Complete(models.StatusGoalAchieved, time.Now()); err != nil {
			return nil, err
		}
	}

	return run, nil
}

// Explore runs an exploration to a terminal status. On context
// cancellation it returns the run as-is, still RUNNING, together with the
// context error; the in-memory tree stays consistent and the run can be
// resumed with further Tick calls.
func (c *Controller) Explore(ctx context.Context, params StartParams) (*Run, error) {
	run, err := c.Start(params)
	if err != nil {
		return nil, err
	}
	for run.Exploration.Status == models.StatusRunning {
		if err := run.Tick(ctx); err != nil {
			return run, err
		}
	}
	return run, nil
}

// Tick executes one expansion round and applies the terminal-status checks
// in priority order: goal, depth limit, cost limit, no viable paths.
// Calling Tick on a completed run is an error.
func (r *Run) Tick(ctx context.Context) error {
	if r.Exploration.Status.Terminal() {
		return fmt.Errorf("%w: exploration %s already completed with status %s", models.ErrInvalidState, r.Exploration.ID, r.Exploration.Status)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	round, err := r.expandRound(ctx)
	if err != nil {
		return err
	}

	// Terminal checks, mutually exclusive, in priority order.
	now := time.Now()
	switch {
	case round.solution != nil:
		r.Solution = round.solution
		return r.Exploration.Complete(models.StatusGoalAchieved, now)
	case r.Exploration.CurrentDepth >= r.Exploration.Config.MaxDepth:
		return r.Exploration.Complete(models.StatusDepthLimitReached, now)
	case r.Exploration.TotalLLMCalls >= r.Exploration.Config.MaxLLMCalls:
		return r.Exploration.Complete(models.StatusCostLimitReached, now)
	case round.proposals == 0:
		return r.Exploration.Complete(models.StatusNoViablePaths, now)
	default:
		return nil
	}
}

// roundResult summarizes one expansion round.
type roundResult struct {
	proposals int                  // proposals received across the whole frontier
	solution  *models.ScenarioNode // first node that achieved the goal, if any
}

// expandRound takes the current frontier, keeps the beam_width best nodes
// by success rate, requests proposals for each, and simulates one child per
// proposal. A proposer failure or a failed child simulation abandons that
// branch for this round only.
func (r *Run) expandRound(ctx context.Context) (roundResult, error) {
	c := r.controller
	cfg := r.Exploration.Config
	var round roundResult

	beam := rankFrontier(r.Tree.Frontier(), cfg.BeamWidth)

	for _, node := range beam {
		if r.Exploration.TotalLLMCalls >= cfg.MaxLLMCalls {
			break
		}
		if err := ctx.Err(); err != nil {
			// Cancelled mid-round: fall back to whatever the tree already
			// holds. Counters reflect only fully applied expansions.
			return round, err
		}

		hint := BudgetHint{
			RemainingCalls:  cfg.MaxLLMCalls - r.Exploration.TotalLLMCalls,
			RemainingDepth:  cfg.MaxDepth - node.Depth,
			MaxProposals:    cfg.EffectiveProposalsPerNode(),
			GoalValue:       r.Exploration.Goal.Value,
			BestSuccessRate: r.Exploration.BestSuccessRate,
		}

		proposals, err := c.proposer.Propose(ctx, node, hint)
		r.Exploration.TotalLLMCalls++
		if err != nil {
			c.logger.Warn("proposal request failed, skipping node this round",
				"exploration", r.Exploration.ID, "node", node.ID, "error", err)
			continue
		}
		if len(proposals) > hint.MaxProposals {
			proposals = proposals[:hint.MaxProposals]
		}
		round.proposals += len(proposals)

		for _, proposal := range proposals {
			child, err := r.expandChild(node, proposal)
			if err != nil {
				c.logger.Warn("child simulation failed, abandoning branch this round",
					"exploration", r.Exploration.ID, "parent", node.ID, "error", err)
				continue
			}

			c.trace.Log(map[string]any{
				"event":        "node_expanded",
				"exploration":  r.Exploration.ID,
				"parent":       node.ID,
				"node":         child.ID,
				"depth":        child.Depth,
				"action":       proposal.ShortAction,
				"success_rate": child.SuccessRate(),
			})

			if r.Exploration.Goal.IsAchieved(child.SuccessRate()) {
				round.solution = &child
				return round, nil
			}
		}
	}

	return round, nil
}

// expandChild simulates the proposal applied to the parent and records the
// resulting node. The child is only persisted once its simulation succeeds:
// the tree never holds a fabricated success node.
func (r *Run) expandChild(parent models.ScenarioNode, proposal models.ActionProposal) (models.ScenarioNode, error) {
	cfg := r.Exploration.Config
	scorecard := parent.ScorecardParams.ApplyImpacts(proposal.ClampedImpacts())

	start := time.Now()
	results, err := r.controller.engine.RunSimulation(r.synths, scorecard, r.scenario, montecarlo.Config{
		NExecutions: cfg.NExecutions,
		Sigma:       cfg.Sigma,
		Seed:        cfg.Seed,
	})
	if err != nil {
		return models.ScenarioNode{}, err
	}

	child, err := r.Tree.CreateChild(parent.ID, proposal, results, time.Since(start).Seconds())
	if err != nil {
		return models.ScenarioNode{}, err
	}

	r.Exploration.TotalNodes++
	if child.Depth > r.Exploration.CurrentDepth {
		r.Exploration.CurrentDepth = child.Depth
	}
	if sr := child.SuccessRate(); sr > r.Exploration.BestSuccessRate {
		r.Exploration.BestSuccessRate = sr
	}
	return child, nil
}

// rankFrontier orders frontier nodes by success rate descending and keeps
// at most beamWidth of them. The sort is stable over creation order, so
// ties resolve the same way on every run with the same seed.
func rankFrontier(frontier []models.ScenarioNode, beamWidth int) []models.ScenarioNode {
	ranked := make([]models.ScenarioNode, len(frontier))
	copy(ranked, frontier)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SuccessRate() > ranked[j].SuccessRate()
	})
	if len(ranked) > beamWidth {
		ranked = ranked[:beamWidth]
	}
	return ranked
}
