// Package exploration implements the scenario tree and the beam-search
// controller that expands it toward a success-rate goal using externally
// supplied action proposals.
package exploration

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/synthlab-io/synthlab/internal/models"
)

// Tree is an arena of ScenarioNodes keyed by id, with parent references as
// foreign-key-style ids rather than pointers. Nodes are created once and
// never mutated or re-parented, which keeps the tree acyclic by
// construction and maps directly onto a persistence table.
type Tree struct {
	explorationID string
	nodes         map[string]models.ScenarioNode
	children      map[string][]string
	order         []string // creation order, used for deterministic iteration
	rootID        string
	newID         func() string
	now           func() time.Time
}

// NewTree creates an empty tree owned by the given exploration.
func NewTree(explorationID string) *Tree {
	return &Tree{
		explorationID: explorationID,
		nodes:         make(map[string]models.ScenarioNode),
		children:      make(map[string][]string),
		newID:         uuid.NewString,
		now:           time.Now,
	}
}

// CreateRoot builds the depth-0 node directly from the already-computed
// baseline simulation; nothing is re-simulated. It fails with
// ErrInvalidState if the baseline scorecard or aggregated outcomes are
// missing, and no node is created in that case.
func (t *Tree) CreateRoot(baseline *models.ScorecardParams, baselineResults *models.SimulationResults) (models.ScenarioNode, error) {
	if t.rootID != "" {
		return models.ScenarioNode{}, fmt.Errorf("%w: exploration %s already has a root node", models.ErrInvalidState, t.explorationID)
	}
	if baseline == nil {
		return models.ScenarioNode{}, fmt.Errorf("%w: experiment has no scorecard", models.ErrInvalidState)
	}
	if baselineResults == nil || !baselineResults.Aggregate.Valid() {
		return models.ScenarioNode{}, fmt.Errorf("%w: baseline analysis has no aggregated outcomes", models.ErrInvalidState)
	}

	node := models.ScenarioNode{
		ID:                t.newID(),
		ExplorationID:     t.explorationID,
		Depth:             0,
		ScorecardParams:   baseline.Clamped(),
		SimulationResults: baselineResults,
		CreatedAt:         t.now(),
	}
	t.insert(node)
	t.rootID = node.ID
	return node, nil
}

// CreateChild applies the proposal's clamped impacts to the parent's
// scorecard and persists the resulting node at depth parent+1.
func (t *Tree) CreateChild(parentID string, proposal models.ActionProposal, results *models.SimulationResults, executionTime float64) (models.ScenarioNode, error) {
	parent, ok := t.nodes[parentID]
	if !ok {
		return models.ScenarioNode{}, fmt.Errorf("%w: parent node %s", models.ErrNotFound, parentID)
	}

	pid := parent.ID
	node := models.ScenarioNode{
		ID:                   t.newID(),
		ExplorationID:        t.explorationID,
		ParentID:             &pid,
		Depth:                parent.Depth + 1,
		ScorecardParams:      parent.ScorecardParams.ApplyImpacts(proposal.ClampedImpacts()),
		SimulationResults:    results,
		ActionApplied:        proposal.Action,
		ActionCategory:       proposal.Category,
		Rationale:            proposal.Rationale,
		ExecutionTimeSeconds: executionTime,
		CreatedAt:            t.now(),
	}
	t.insert(node)
	return node, nil
}

// Node returns the node with the given id.
func (t *Tree) Node(id string) (models.ScenarioNode, error) {
	node, ok := t.nodes[id]
	if !ok {
		return models.ScenarioNode{}, fmt.Errorf("%w: node %s", models.ErrNotFound, id)
	}
	return node, nil
}

// Root returns the root node, if one has been created.
func (t *Tree) Root() (models.ScenarioNode, bool) {
	if t.rootID == "" {
		return models.ScenarioNode{}, false
	}
	return t.nodes[t.rootID], true
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Nodes returns every node in creation order.
func (t *Tree) Nodes() []models.ScenarioNode {
	out := make([]models.ScenarioNode, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.nodes[id])
	}
	return out
}

// Frontier returns the current leaf nodes, the ones eligible for further
// expansion, in creation order. Every node without descendants is a leaf;
// the root is the entire frontier until it grows children.
func (t *Tree) Frontier() []models.ScenarioNode {
	out := make([]models.ScenarioNode, 0, len(t.order))
	for _, id := range t.order {
		if len(t.children[id]) == 0 {
			out = append(out, t.nodes[id])
		}
	}
	return out
}

// Path returns the root-to-node ancestor chain in depth order. It explains
// how a scenario was reached: each step carries the action applied.
func (t *Tree) Path(nodeID string) ([]models.ScenarioNode, error) {
	node, ok := t.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: node %s", models.ErrNotFound, nodeID)
	}

	path := []models.ScenarioNode{node}
	for node.ParentID != nil {
		parent, ok := t.nodes[*node.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: parent node %s", models.ErrNotFound, *node.ParentID)
		}
		path = append(path, parent)
		node = parent
	}

	sort.Slice(path, func(i, j int) bool { return path[i].Depth < path[j].Depth })
	return path, nil
}

func (t *Tree) insert(node models.ScenarioNode) {
	t.nodes[node.ID] = node
	t.order = append(t.order, node.ID)
	if node.ParentID != nil {
		t.children[*node.ParentID] = append(t.children[*node.ParentID], node.ID)
	}
}

