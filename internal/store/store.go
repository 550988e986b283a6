// Package store persists exploration runs, their scenario trees, and
// sensitivity analyses. The core algorithms never touch storage themselves;
// they emit fully-formed values and this package is the sink.
package store

import (
	"context"
	"time"

	"github.com/synthlab-io/synthlab/internal/models"
)

// SensitivityRecord wraps a SensitivityResult with identity and provenance
// for storage.
type SensitivityRecord struct {
	ID           string                   `json:"id"`
	ExperimentID string                   `json:"experiment_id"`
	Result       models.SensitivityResult `json:"result"`
	CreatedAt    time.Time                `json:"created_at"`
}

// Store persists explorations, scenario nodes, and sensitivity records.
// Get methods return models.ErrNotFound (wrapped) for missing ids.
type Store interface {
	// Exploration operations. SaveExploration upserts: the controller saves
	// once at start and again at each status or counter change.
	SaveExploration(ctx context.Context, exp models.Exploration) error
	GetExploration(ctx context.Context, id string) (*models.Exploration, error)
	ListExplorations(ctx context.Context, experimentID string) ([]models.Exploration, error)

	// DeleteExploration removes an exploration and cascades to every node
	// it owns.
	DeleteExploration(ctx context.Context, id string) error

	// Node operations. Nodes are immutable; SaveNode is insert-only.
	SaveNode(ctx context.Context, node models.ScenarioNode) error
	GetNode(ctx context.Context, id string) (*models.ScenarioNode, error)
	ListNodes(ctx context.Context, explorationID string) ([]models.ScenarioNode, error)

	// Sensitivity operations.
	SaveSensitivity(ctx context.Context, rec SensitivityRecord) error
	GetSensitivity(ctx context.Context, id string) (*SensitivityRecord, error)

	Close() error
}
