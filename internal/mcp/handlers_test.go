package mcp

import (
	"testing"

	"github.com/synthlab-io/synthlab/internal/models"
)

func node(id string, parentID *string, depth int, successRate float64) models.ScenarioNode {
	return models.ScenarioNode{
		ID:       id,
		ParentID: parentID,
		Depth:    depth,
		SimulationResults: &models.SimulationResults{
			Aggregate: models.OutcomeRates{SuccessRate: successRate},
		},
	}
}

func TestBestPath(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		if got := bestPath(nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("root only", func(t *testing.T) {
		path := bestPath([]models.ScenarioNode{node("root", nil, 0, 0.4)})
		if len(path) != 1 || path[0].ID != "root" {
			t.Fatalf("unexpected path: %+v", path)
		}
	})

	t.Run("walks to the best node", func(t *testing.T) {
		rootID, aID := "root", "a"
		nodes := []models.ScenarioNode{
			node("root", nil, 0, 0.40),
			node("a", &rootID, 1, 0.45),
			node("b", &rootID, 1, 0.42),
			node("a1", &aID, 2, 0.55),
		}

		path := bestPath(nodes)
		want := []string{"root", "a", "a1"}
		if len(path) != len(want) {
			t.Fatalf("path length %d, want %d", len(path), len(want))
		}
		for i, step := range path {
			if step.ID != want[i] {
				t.Errorf("path[%d] = %s, want %s", i, step.ID, want[i])
			}
		}
		if path[2].SuccessRate != 0.55 {
			t.Errorf("best success = %v", path[2].SuccessRate)
		}
	})

	t.Run("ties keep the earliest node", func(t *testing.T) {
		rootID := "root"
		nodes := []models.ScenarioNode{
			node("root", nil, 0, 0.40),
			node("a", &rootID, 1, 0.5),
			node("b", &rootID, 1, 0.5),
		}
		path := bestPath(nodes)
		if path[len(path)-1].ID != "a" {
			t.Errorf("tie should keep first node, got %s", path[len(path)-1].ID)
		}
	})
}

func TestInputConversions(t *testing.T) {
	t.Run("scorecard", func(t *testing.T) {
		in := ScorecardInput{Complexity: 0.1, InitialEffort: 0.2, PerceivedRisk: 0.3, TimeToValue: 0.4}
		got := scorecardFromInput(in)
		want := models.ScorecardParams{Complexity: 0.1, InitialEffort: 0.2, PerceivedRisk: 0.3, TimeToValue: 0.4}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("nil scenario means neutral", func(t *testing.T) {
		if got := scenarioFromInput(nil); got != (models.ScenarioModifiers{}) {
			t.Errorf("got %+v, want zero modifiers", got)
		}
	})

	t.Run("scenario fields map across", func(t *testing.T) {
		in := &ScenarioInput{TrustModifier: 0.2, MotivationModifier: -0.1, TaskCriticality: 0.9}
		got := scenarioFromInput(in)
		if got.TrustModifier != 0.2 || got.MotivationModifier != -0.1 || got.TaskCriticality != 0.9 {
			t.Errorf("got %+v", got)
		}
	})
}
