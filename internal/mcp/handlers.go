package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/synthlab-io/synthlab/internal/exploration"
	"github.com/synthlab-io/synthlab/internal/models"
	"github.com/synthlab-io/synthlab/internal/montecarlo"
	"github.com/synthlab-io/synthlab/internal/population"
	"github.com/synthlab-io/synthlab/internal/sensitivity"
	"github.com/synthlab-io/synthlab/internal/store"
)

// registerTools registers all synthlab MCP tools with the server.
func (s *Server) registerTools() error {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "run_simulation",
		Description: "Simulate a scorecard against a synth population and return adoption outcome rates",
	}, s.handleRunSimulation)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "analyze_sensitivity",
		Description: "Rank scorecard dimensions by their marginal effect on the simulated success rate",
	}, s.handleAnalyzeSensitivity)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "start_exploration",
		Description: "Run a beam search over scorecard modifications toward a success-rate goal",
	}, s.handleStartExploration)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "get_exploration",
		Description: "Fetch a stored exploration with its scenario tree and best action path",
	}, s.handleGetExploration)

	return nil
}

// handleRunSimulation runs one Monte Carlo simulation.
func (s *Server) handleRunSimulation(ctx context.Context, req *sdk.CallToolRequest, args RunSimulationInput) (*sdk.CallToolResult, RunSimulationOutput, error) {
	synths, err := s.resolvePopulation(args.Population, args.Seed)
	if err != nil {
		return nil, RunSimulationOutput{}, err
	}

	run := s.runConfig(args.NExecutions, args.Sigma, args.Seed)
	results, err := s.engine.RunSimulation(synths, scorecardFromInput(args.Scorecard), scenarioFromInput(args.Scenario), run)
	if err != nil {
		return nil, RunSimulationOutput{}, err
	}

	return nil, RunSimulationOutput{
		Aggregate:            results.Aggregate,
		PerSynth:             results.PerSynth,
		TotalSynths:          results.TotalSynths,
		NExecutions:          results.NExecutions,
		ExecutionTimeSeconds: results.ExecutionTimeSeconds,
	}, nil
}

// handleAnalyzeSensitivity runs an OAT analysis and stores the result.
func (s *Server) handleAnalyzeSensitivity(ctx context.Context, req *sdk.CallToolRequest, args AnalyzeSensitivityInput) (*sdk.CallToolResult, AnalyzeSensitivityOutput, error) {
	synths, err := s.resolvePopulation(args.Population, args.Seed)
	if err != nil {
		return nil, AnalyzeSensitivityOutput{}, err
	}

	baseline := scorecardFromInput(args.Scorecard)
	result, err := s.analyzer.Analyze(sensitivity.Request{
		Synths:   synths,
		Baseline: &baseline,
		Scenario: scenarioFromInput(args.Scenario),
		Run:      s.runConfig(args.NExecutions, args.Sigma, args.Seed),
		Deltas:   args.Deltas,
	})
	if err != nil {
		return nil, AnalyzeSensitivityOutput{}, err
	}

	rec := store.SensitivityRecord{
		ID:           uuid.NewString(),
		ExperimentID: args.ExperimentID,
		Result:       *result,
		CreatedAt:    time.Now(),
	}
	if err := s.store.SaveSensitivity(ctx, rec); err != nil {
		return nil, AnalyzeSensitivityOutput{}, fmt.Errorf("failed to save analysis: %w", err)
	}

	return nil, AnalyzeSensitivityOutput{AnalysisID: rec.ID, Result: *result}, nil
}

// handleStartExploration runs a beam search to a terminal status and
// persists the exploration with its full scenario tree.
func (s *Server) handleStartExploration(ctx context.Context, req *sdk.CallToolRequest, args StartExplorationInput) (*sdk.CallToolResult, StartExplorationOutput, error) {
	synths, err := s.resolvePopulation(args.Population, args.Seed)
	if err != nil {
		return nil, StartExplorationOutput{}, err
	}

	cfg := s.explorationConfig(args)
	baseline := scorecardFromInput(args.Scorecard)
	scenario := scenarioFromInput(args.Scenario)

	baselineResults, err := s.engine.RunSimulation(synths, baseline, scenario, montecarlo.Config{
		NExecutions: cfg.NExecutions,
		Sigma:       cfg.Sigma,
		Seed:        cfg.Seed,
	})
	if err != nil {
		return nil, StartExplorationOutput{}, fmt.Errorf("baseline simulation: %w", err)
	}

	controller := exploration.NewController(s.engine, s.proposer, s.logger, s.trace)
	run, err := controller.Explore(ctx, exploration.StartParams{
		ExperimentID:     args.ExperimentID,
		Goal:             models.Goal{Metric: models.GoalMetricSuccessRate, Operator: models.GoalOperatorGTE, Value: args.GoalSuccessRate},
		Config:           cfg,
		Synths:           synths,
		Scenario:         scenario,
		Baseline:         &baseline,
		BaselineOutcomes: baselineResults,
	})
	if err != nil {
		return nil, StartExplorationOutput{}, err
	}

	if err := s.persistRun(ctx, run); err != nil {
		return nil, StartExplorationOutput{}, err
	}

	return nil, StartExplorationOutput{
		ExplorationID:   run.Exploration.ID,
		Status:          string(run.Exploration.Status),
		TotalNodes:      run.Exploration.TotalNodes,
		TotalLLMCalls:   run.Exploration.TotalLLMCalls,
		CurrentDepth:    run.Exploration.CurrentDepth,
		BestSuccessRate: run.Exploration.BestSuccessRate,
		GoalAchieved:    run.Exploration.Status == models.StatusGoalAchieved,
		BestPath:        bestPath(run.Tree.Nodes()),
	}, nil
}

// handleGetExploration fetches a stored exploration and its tree.
func (s *Server) handleGetExploration(ctx context.Context, req *sdk.CallToolRequest, args GetExplorationInput) (*sdk.CallToolResult, GetExplorationOutput, error) {
	exp, err := s.store.GetExploration(ctx, args.ID)
	if err != nil {
		return nil, GetExplorationOutput{}, err
	}
	nodes, err := s.store.ListNodes(ctx, args.ID)
	if err != nil {
		return nil, GetExplorationOutput{}, err
	}

	summaries := make([]NodeSummary, 0, len(nodes))
	for _, node := range nodes {
		summaries = append(summaries, nodeSummary(node))
	}

	return nil, GetExplorationOutput{
		Exploration: *exp,
		Nodes:       summaries,
		BestPath:    bestPath(nodes),
	}, nil
}

// persistRun saves the exploration record and every tree node.
func (s *Server) persistRun(ctx context.Context, run *exploration.Run) error {
	if err := s.store.SaveExploration(ctx, run.Exploration); err != nil {
		return fmt.Errorf("failed to save exploration: %w", err)
	}
	for _, node := range run.Tree.Nodes() {
		if err := s.store.SaveNode(ctx, node); err != nil {
			return fmt.Errorf("failed to save node %s: %w", node.ID, err)
		}
	}
	return nil
}

// resolvePopulation loads the named population file or generates a default
// archetype mix.
func (s *Server) resolvePopulation(input *PopulationInput, seed *int64) ([]models.Synth, error) {
	if input != nil && input.Path != "" {
		path := input.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.root, path)
		}
		return population.Load(path)
	}

	size := 20
	if input != nil && input.Size > 0 {
		size = input.Size
	}
	genSeed := time.Now().UnixNano()
	if seed != nil {
		genSeed = *seed
	}
	return population.Generate(size, nil, genSeed)
}

// runConfig merges per-call overrides with the configured simulation
// defaults.
func (s *Server) runConfig(nExecutions int, sigma *float64, seed *int64) montecarlo.Config {
	run := montecarlo.Config{
		NExecutions: s.config.Simulation.NExecutions,
		Sigma:       s.config.Simulation.Sigma,
		Workers:     s.config.Simulation.Workers,
		Seed:        seed,
	}
	if nExecutions > 0 {
		run.NExecutions = nExecutions
	}
	if sigma != nil {
		run.Sigma = *sigma
	}
	return run
}

// explorationConfig merges per-call overrides with the configured
// exploration defaults.
func (s *Server) explorationConfig(args StartExplorationInput) models.ExplorationConfig {
	cfg := s.config.Exploration
	if args.BeamWidth > 0 {
		cfg.BeamWidth = args.BeamWidth
	}
	if args.MaxDepth > 0 {
		cfg.MaxDepth = args.MaxDepth
	}
	if args.MaxLLMCalls > 0 {
		cfg.MaxLLMCalls = args.MaxLLMCalls
	}
	if args.NExecutions > 0 {
		cfg.NExecutions = args.NExecutions
	}
	if args.Sigma != nil {
		cfg.Sigma = *args.Sigma
	}
	if args.Seed != nil {
		cfg.Seed = args.Seed
	}
	return cfg
}

func scorecardFromInput(in ScorecardInput) models.ScorecardParams {
	return models.ScorecardParams{
		Complexity:    in.Complexity,
		InitialEffort: in.InitialEffort,
		PerceivedRisk: in.PerceivedRisk,
		TimeToValue:   in.TimeToValue,
	}
}

func scenarioFromInput(in *ScenarioInput) models.ScenarioModifiers {
	if in == nil {
		return models.ScenarioModifiers{}
	}
	return models.ScenarioModifiers{
		TrustModifier:      in.TrustModifier,
		FrictionModifier:   in.FrictionModifier,
		MotivationModifier: in.MotivationModifier,
		TaskCriticality:    in.TaskCriticality,
	}
}

func nodeSummary(node models.ScenarioNode) NodeSummary {
	return NodeSummary{
		ID:          node.ID,
		Depth:       node.Depth,
		Action:      node.ActionApplied,
		Category:    node.ActionCategory,
		SuccessRate: node.SuccessRate(),
		Scorecard:   node.ScorecardParams,
	}
}

// bestPath walks parent references from the best-scoring node back to the
// root and returns the chain in depth order. Ties keep the earliest node.
func bestPath(nodes []models.ScenarioNode) []NodeSummary {
	if len(nodes) == 0 {
		return nil
	}

	byID := make(map[string]models.ScenarioNode, len(nodes))
	best := nodes[0]
	for _, node := range nodes {
		byID[node.ID] = node
		if node.SuccessRate() > best.SuccessRate() {
			best = node
		}
	}

	var chain []models.ScenarioNode
	for node, ok := best, true; ok; {
		chain = append(chain, node)
		if node.ParentID == nil {
			break
		}
		node, ok = byID[*node.ParentID]
	}

	path := make([]NodeSummary, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		path = append(path, nodeSummary(chain[i]))
	}
	return path
}
