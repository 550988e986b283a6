package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/synthlab-io/synthlab/internal/models"
)

// MemoryStore implements Store in memory. It backs tests and one-shot CLI
// runs that do not need persistence.
type MemoryStore struct {
	mu           sync.RWMutex
	explorations map[string]models.Exploration
	nodes        map[string]models.ScenarioNode
	nodeOrder    []string
	sensitivity  map[string]SensitivityRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		explorations: make(map[string]models.Exploration),
		nodes:        make(map[string]models.ScenarioNode),
		sensitivity:  make(map[string]SensitivityRecord),
	}
}

// SaveExploration inserts or updates an exploration record.
func (s *MemoryStore) SaveExploration(ctx context.Context, exp models.Exploration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exp.ID == "" {
		return fmt.Errorf("%w: exploration ID is required", models.ErrValidation)
	}
	s.explorations[exp.ID] = exp
	return nil
}

// GetExploration returns the exploration with the given id.
func (s *MemoryStore) GetExploration(ctx context.Context, id string) (*models.Exploration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.explorations[id]
	if !ok {
		return nil, fmt.Errorf("%w: exploration %s", models.ErrNotFound, id)
	}
	return &exp, nil
}

// ListExplorations returns explorations for an experiment, newest first.
func (s *MemoryStore) ListExplorations(ctx context.Context, experimentID string) ([]models.Exploration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Exploration
	for _, exp := range s.explorations {
		if experimentID == "" || exp.ExperimentID == experimentID {
			out = append(out, exp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

// DeleteExploration removes an exploration and every node it owns.
func (s *MemoryStore) DeleteExploration(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.explorations[id]; !ok {
		return fmt.Errorf("%w: exploration %s", models.ErrNotFound, id)
	}
	delete(s.explorations, id)

	kept := s.nodeOrder[:0]
	for _, nodeID := range s.nodeOrder {
		if s.nodes[nodeID].ExplorationID == id {
			delete(s.nodes, nodeID)
			continue
		}
		kept = append(kept, nodeID)
	}
	s.nodeOrder = kept
	return nil
}

// SaveNode inserts a scenario node. Nodes are immutable; duplicate ids are
// an error.
func (s *MemoryStore) SaveNode(ctx context.Context, node models.ScenarioNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if node.ID == "" {
		return fmt.Errorf("%w: node ID is required", models.ErrValidation)
	}
	if _, ok := s.nodes[node.ID]; ok {
		return fmt.Errorf("node %s already exists", node.ID)
	}
	s.nodes[node.ID] = node
	s.nodeOrder = append(s.nodeOrder, node.ID)
	return nil
}

// GetNode returns the node with the given id.
func (s *MemoryStore) GetNode(ctx context.Context, id string) (*models.ScenarioNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: node %s", models.ErrNotFound, id)
	}
	return &node, nil
}

// ListNodes returns every node of an exploration in creation order.
func (s *MemoryStore) ListNodes(ctx context.Context, explorationID string) ([]models.ScenarioNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ScenarioNode
	for _, nodeID := range s.nodeOrder {
		if node := s.nodes[nodeID]; node.ExplorationID == explorationID {
			out = append(out, node)
		}
	}
	return out, nil
}

// SaveSensitivity inserts or replaces a sensitivity record.
func (s *MemoryStore) SaveSensitivity(ctx context.Context, rec SensitivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		return fmt.Errorf("%w: sensitivity record ID is required", models.ErrValidation)
	}
	s.sensitivity[rec.ID] = rec
	return nil
}

// GetSensitivity returns the sensitivity record with the given id.
func (s *MemoryStore) GetSensitivity(ctx context.Context, id string) (*SensitivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sensitivity[id]
	if !ok {
		return nil, fmt.Errorf("%w: sensitivity record %s", models.ErrNotFound, id)
	}
	return &rec, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
