package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/synthlab-io/synthlab/internal/models"
)

// openStores returns both implementations so every test runs against each.
func openStores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"sqlite": sqlite,
		"memory": NewMemoryStore(),
	}
}

func testExploration(id string) models.Exploration {
	seed := int64(42)
	return models.Exploration{
		ID:           id,
		ExperimentID: "exp-test",
		Goal:         models.Goal{Metric: models.GoalMetricSuccessRate, Operator: models.GoalOperatorGTE, Value: 0.6},
		Config: models.ExplorationConfig{
			BeamWidth: 3, MaxDepth: 3, MaxLLMCalls: 20, NExecutions: 100, Sigma: 0.1, Seed: &seed,
		},
		Status:          models.StatusRunning,
		CurrentDepth:    1,
		TotalNodes:      3,
		TotalLLMCalls:   2,
		BestSuccessRate: 0.45,
		StartedAt:       time.Now().UTC(),
	}
}

func testNode(id, explorationID string, parentID *string, depth int) models.ScenarioNode {
	return models.ScenarioNode{
		ID:            id,
		ExplorationID: explorationID,
		ParentID:      parentID,
		Depth:         depth,
		ScorecardParams: models.ScorecardParams{
			Complexity: 0.45, InitialEffort: 0.30, PerceivedRisk: 0.25, TimeToValue: 0.40,
		},
		SimulationResults: &models.SimulationResults{
			Aggregate:   models.OutcomeRates{DidNotTryRate: 0.3, FailedRate: 0.25, SuccessRate: 0.45},
			TotalSynths: 4,
			NExecutions: 100,
		},
		ActionApplied:  "Simplify primary flow",
		ActionCategory: "ux",
		CreatedAt:      time.Now().UTC(),
	}
}

func TestStore_ExplorationRoundtrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			exp := testExploration("e1")
			if err := st.SaveExploration(ctx, exp); err != nil {
				t.Fatalf("save: %v", err)
			}

			got, err := st.GetExploration(ctx, "e1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.ID != exp.ID || got.Status != exp.Status || got.Goal != exp.Goal {
				t.Errorf("roundtrip mismatch: %+v", got)
			}
			if got.Config.BeamWidth != 3 || got.Config.Seed == nil || *got.Config.Seed != 42 {
				t.Errorf("config not preserved: %+v", got.Config)
			}
			if got.BestSuccessRate != 0.45 {
				t.Errorf("BestSuccessRate = %v", got.BestSuccessRate)
			}
			if got.CompletedAt != nil {
				t.Error("CompletedAt should be nil for a running exploration")
			}

			t.Run("upsert updates in place", func(t *testing.T) {
				done := exp
				now := time.Now().UTC()
				done.Status = models.StatusGoalAchieved
				done.CompletedAt = &now
				done.BestSuccessRate = 0.61
				if err := st.SaveExploration(ctx, done); err != nil {
					t.Fatalf("upsert: %v", err)
				}
				got, err := st.GetExploration(ctx, "e1")
				if err != nil {
					t.Fatalf("get after upsert: %v", err)
				}
				if got.Status != models.StatusGoalAchieved || got.CompletedAt == nil {
					t.Errorf("upsert not applied: %+v", got)
				}
			})
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := st.GetExploration(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
				t.Errorf("GetExploration: expected ErrNotFound, got %v", err)
			}
			if _, err := st.GetNode(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
				t.Errorf("GetNode: expected ErrNotFound, got %v", err)
			}
			if _, err := st.GetSensitivity(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
				t.Errorf("GetSensitivity: expected ErrNotFound, got %v", err)
			}
			if err := st.DeleteExploration(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
				t.Errorf("DeleteExploration: expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_NodesRoundtripAndOrder(t *testing.T) {
	ctx := context.Background()
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.SaveExploration(ctx, testExploration("e1")); err != nil {
				t.Fatalf("save exploration: %v", err)
			}

			root := testNode("n1", "e1", nil, 0)
			rootID := root.ID
			child := testNode("n2", "e1", &rootID, 1)
			for _, node := range []models.ScenarioNode{root, child} {
				if err := st.SaveNode(ctx, node); err != nil {
					t.Fatalf("save node %s: %v", node.ID, err)
				}
			}

			got, err := st.GetNode(ctx, "n2")
			if err != nil {
				t.Fatalf("get node: %v", err)
			}
			if got.ParentID == nil || *got.ParentID != "n1" {
				t.Error("parent reference not preserved")
			}
			if got.SimulationResults == nil || got.SimulationResults.Aggregate.SuccessRate != 0.45 {
				t.Errorf("simulation results not preserved: %+v", got.SimulationResults)
			}

			nodes, err := st.ListNodes(ctx, "e1")
			if err != nil {
				t.Fatalf("list nodes: %v", err)
			}
			if len(nodes) != 2 || nodes[0].ID != "n1" || nodes[1].ID != "n2" {
				t.Errorf("nodes out of creation order: %+v", nodes)
			}

			t.Run("duplicate node rejected", func(t *testing.T) {
				if err := st.SaveNode(ctx, root); err == nil {
					t.Error("expected error for duplicate node id")
				}
			})
		})
	}
}

func TestStore_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, expID := range []string{"e1", "e2"} {
				exp := testExploration(expID)
				exp.ID = expID
				if err := st.SaveExploration(ctx, exp); err != nil {
					t.Fatalf("save: %v", err)
				}
				if err := st.SaveNode(ctx, testNode("n-"+expID, expID, nil, 0)); err != nil {
					t.Fatalf("save node: %v", err)
				}
			}

			if err := st.DeleteExploration(ctx, "e1"); err != nil {
				t.Fatalf("delete: %v", err)
			}

			if _, err := st.GetExploration(ctx, "e1"); !errors.Is(err, models.ErrNotFound) {
				t.Errorf("exploration survived delete: %v", err)
			}
			if _, err := st.GetNode(ctx, "n-e1"); !errors.Is(err, models.ErrNotFound) {
				t.Errorf("node survived cascade: %v", err)
			}

			// The other exploration is untouched.
			if _, err := st.GetNode(ctx, "n-e2"); err != nil {
				t.Errorf("unrelated node deleted: %v", err)
			}
		})
	}
}

func TestStore_ListExplorations(t *testing.T) {
	ctx := context.Background()
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			older := testExploration("e-old")
			older.StartedAt = time.Now().UTC().Add(-time.Hour)
			newer := testExploration("e-new")
			other := testExploration("e-other")
			other.ExperimentID = "another-experiment"

			for _, exp := range []models.Exploration{older, newer, other} {
				if err := st.SaveExploration(ctx, exp); err != nil {
					t.Fatalf("save: %v", err)
				}
			}

			got, err := st.ListExplorations(ctx, "exp-test")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("got %d explorations, want 2", len(got))
			}
			if got[0].ID != "e-new" || got[1].ID != "e-old" {
				t.Errorf("not newest-first: %s, %s", got[0].ID, got[1].ID)
			}

			all, err := st.ListExplorations(ctx, "")
			if err != nil {
				t.Fatalf("list all: %v", err)
			}
			if len(all) != 3 {
				t.Errorf("empty filter should return all, got %d", len(all))
			}
		})
	}
}

func TestStore_SensitivityRoundtrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			rec := SensitivityRecord{
				ID:           "s1",
				ExperimentID: "exp-test",
				Result: models.SensitivityResult{
					BaselineSuccess:        0.45,
					DeltasUsed:             []float64{0.05, 0.10},
					MostSensitiveDimension: models.DimComplexity,
					Dimensions: []models.DimensionSensitivity{{
						Dimension:        models.DimComplexity,
						BaselineValue:    0.45,
						SensitivityIndex: 1.2,
						Rank:             1,
						OutcomesByDelta: map[string]models.OutcomeRates{
							models.DeltaKey(0.05): {DidNotTryRate: 0.35, FailedRate: 0.25, SuccessRate: 0.4},
						},
					}},
				},
				CreatedAt: time.Now().UTC(),
			}

			if err := st.SaveSensitivity(ctx, rec); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := st.GetSensitivity(ctx, "s1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Result.MostSensitiveDimension != models.DimComplexity {
				t.Errorf("result not preserved: %+v", got.Result)
			}
			if len(got.Result.Dimensions) != 1 || got.Result.Dimensions[0].Rank != 1 {
				t.Errorf("dimensions not preserved: %+v", got.Result.Dimensions)
			}
		})
	}
}

func TestStore_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.SaveExploration(ctx, models.Exploration{}); !errors.Is(err, models.ErrValidation) {
				t.Errorf("empty exploration id: expected ErrValidation, got %v", err)
			}
			if err := st.SaveNode(ctx, models.ScenarioNode{}); !errors.Is(err, models.ErrValidation) {
				t.Errorf("empty node id: expected ErrValidation, got %v", err)
			}
			if err := st.SaveSensitivity(ctx, SensitivityRecord{}); !errors.Is(err, models.ErrValidation) {
				t.Errorf("empty record id: expected ErrValidation, got %v", err)
			}
		})
	}
}
