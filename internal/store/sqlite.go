package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/synthlab-io/synthlab/internal/models"
)

// timeLayout is the column format for timestamps.
const timeLayout = time.RFC3339Nano

// SQLiteStore implements Store using SQLite for persistence.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a store rooted at projectRoot. The database lives
// at .synthlab/synthlab.db.
func NewSQLiteStore(projectRoot string) (*SQLiteStore, error) {
	dir := filepath.Join(projectRoot, ".synthlab")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .synthlab directory: %w", err)
	}

	dbPath := filepath.Join(dir, "synthlab.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// SaveExploration inserts or updates an exploration record.
func (s *SQLiteStore) SaveExploration(ctx context.Context, exp models.Exploration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exp.ID == "" {
		return fmt.Errorf("%w: exploration ID is required", models.ErrValidation)
	}

	goalJSON, err := json.Marshal(exp.Goal)
	if err != nil {
		return fmt.Errorf("marshal goal: %w", err)
	}
	configJSON, err := json.Marshal(exp.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var completedAt any
	if exp.CompletedAt != nil {
		completedAt = exp.CompletedAt.UTC().Format(timeLayout)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO explorations (
			id, experiment_id, baseline_analysis_id, goal, config, status,
			current_depth, total_nodes, total_llm_calls, best_success_rate,
			started_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			current_depth = excluded.current_depth,
			total_nodes = excluded.total_nodes,
			total_llm_calls = excluded.total_llm_calls,
			best_success_rate = excluded.best_success_rate,
			completed_at = excluded.completed_at`,
		exp.ID, exp.ExperimentID, exp.BaselineAnalysisID,
		string(goalJSON), string(configJSON), string(exp.Status),
		exp.CurrentDepth, exp.TotalNodes, exp.TotalLLMCalls, exp.BestSuccessRate,
		exp.StartedAt.UTC().Format(timeLayout), completedAt)
	if err != nil {
		return fmt.Errorf("save exploration %s: %w", exp.ID, err)
	}
	return nil
}

// GetExploration returns the exploration with the given id.
func (s *SQLiteStore) GetExploration(ctx context.Context, id string) (*models.Exploration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, experiment_id, baseline_analysis_id, goal, config, status,
		       current_depth, total_nodes, total_llm_calls, best_success_rate,
		       started_at, completed_at
		FROM explorations WHERE id = ?`, id)

	exp, err := scanExploration(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: exploration %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get exploration %s: %w", id, err)
	}
	return exp, nil
}

// ListExplorations returns explorations for an experiment, newest first.
// An empty experimentID returns all explorations.
func (s *SQLiteStore) ListExplorations(ctx context.Context, experimentID string) ([]models.Exploration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, experiment_id, baseline_analysis_id, goal, config, status,
		       current_depth, total_nodes, total_llm_calls, best_success_rate,
		       started_at, completed_at
		FROM explorations`
	args := []any{}
	if experimentID != "" {
		query += ` WHERE experiment_id = ?`
		args = append(args, experimentID)
	}
	query += ` ORDER BY started_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list explorations: %w", err)
	}
	defer rows.Close()

	var out []models.Exploration
	for rows.Next() {
		exp, err := scanExploration(rows)
		if err != nil {
			return nil, fmt.Errorf("list explorations: %w", err)
		}
		out = append(out, *exp)
	}
	return out, rows.Err()
}

// DeleteExploration removes an exploration; the node cascade is enforced by
// the foreign key.
func (s *SQLiteStore) DeleteExploration(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM explorations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete exploration %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: exploration %s", models.ErrNotFound, id)
	}
	return nil
}

// SaveNode inserts a scenario node. Nodes are immutable, so conflicts on id
// are an error rather than an upsert.
func (s *SQLiteStore) SaveNode(ctx context.Context, node models.ScenarioNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if node.ID == "" {
		return fmt.Errorf("%w: node ID is required", models.ErrValidation)
	}

	scorecardJSON, err := json.Marshal(node.ScorecardParams)
	if err != nil {
		return fmt.Errorf("marshal scorecard: %w", err)
	}

	var resultsJSON any
	if node.SimulationResults != nil {
		b, err := json.Marshal(node.SimulationResults)
		if err != nil {
			return fmt.Errorf("marshal simulation results: %w", err)
		}
		resultsJSON = string(b)
	}

	var parentID any
	if node.ParentID != nil {
		parentID = *node.ParentID
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scenario_nodes (
			id, exploration_id, parent_id, depth, scorecard_params,
			simulation_results, action_applied, action_category, rationale,
			execution_time_seconds, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		node.ID, node.ExplorationID, parentID, node.Depth, string(scorecardJSON),
		resultsJSON, node.ActionApplied, node.ActionCategory, node.Rationale,
		node.ExecutionTimeSeconds, node.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save node %s: %w", node.ID, err)
	}
	return nil
}

// GetNode returns the node with the given id.
func (s *SQLiteStore) GetNode(ctx context.Context, id string) (*models.ScenarioNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, exploration_id, parent_id, depth, scorecard_params,
		       simulation_results, action_applied, action_category, rationale,
		       execution_time_seconds, created_at
		FROM scenario_nodes WHERE id = ?`, id)

	node, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: node %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get node %s: %w", id, err)
	}
	return node, nil
}

// ListNodes returns every node of an exploration in creation order.
func (s *SQLiteStore) ListNodes(ctx context.Context, explorationID string) ([]models.ScenarioNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, exploration_id, parent_id, depth, scorecard_params,
		       simulation_results, action_applied, action_category, rationale,
		       execution_time_seconds, created_at
		FROM scenario_nodes WHERE exploration_id = ? ORDER BY created_at, id`, explorationID)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()

	var out []models.ScenarioNode
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("list nodes: %w", err)
		}
		out = append(out, *node)
	}
	return out, rows.Err()
}

// SaveSensitivity inserts or replaces a sensitivity record.
func (s *SQLiteStore) SaveSensitivity(ctx context.Context, rec SensitivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		return fmt.Errorf("%w: sensitivity record ID is required", models.ErrValidation)
	}

	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal sensitivity result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sensitivity_results (id, experiment_id, result, created_at)
		VALUES (?, ?, ?, ?)`,
		rec.ID, rec.ExperimentID, string(resultJSON), rec.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save sensitivity %s: %w", rec.ID, err)
	}
	return nil
}

// GetSensitivity returns the sensitivity record with the given id.
func (s *SQLiteStore) GetSensitivity(ctx context.Context, id string) (*SensitivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec SensitivityRecord
	var resultJSON, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, experiment_id, result, created_at
		FROM sensitivity_results WHERE id = ?`, id).
		Scan(&rec.ID, &rec.ExperimentID, &resultJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: sensitivity record %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get sensitivity %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return nil, fmt.Errorf("unmarshal sensitivity result: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &rec, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanExploration(row scanner) (*models.Exploration, error) {
	var exp models.Exploration
	var goalJSON, configJSON, status, startedAt string
	var completedAt sql.NullString

	err := row.Scan(&exp.ID, &exp.ExperimentID, &exp.BaselineAnalysisID,
		&goalJSON, &configJSON, &status,
		&exp.CurrentDepth, &exp.TotalNodes, &exp.TotalLLMCalls, &exp.BestSuccessRate,
		&startedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(goalJSON), &exp.Goal); err != nil {
		return nil, fmt.Errorf("unmarshal goal: %w", err)
	}
	if err := json.Unmarshal([]byte(configJSON), &exp.Config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	exp.Status = models.ExplorationStatus(status)
	exp.StartedAt, _ = time.Parse(timeLayout, startedAt)
	if completedAt.Valid {
		t, err := time.Parse(timeLayout, completedAt.String)
		if err == nil {
			exp.CompletedAt = &t
		}
	}
	return &exp, nil
}

func scanNode(row scanner) (*models.ScenarioNode, error) {
	var node models.ScenarioNode
	var parentID, resultsJSON sql.NullString
	var scorecardJSON, createdAt string

	err := row.Scan(&node.ID, &node.ExplorationID, &parentID, &node.Depth,
		&scorecardJSON, &resultsJSON,
		&node.ActionApplied, &node.ActionCategory, &node.Rationale,
		&node.ExecutionTimeSeconds, &createdAt)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		pid := parentID.String
		node.ParentID = &pid
	}
	if err := json.Unmarshal([]byte(scorecardJSON), &node.ScorecardParams); err != nil {
		return nil, fmt.Errorf("unmarshal scorecard: %w", err)
	}
	if resultsJSON.Valid {
		var results models.SimulationResults
		if err := json.Unmarshal([]byte(resultsJSON.String), &results); err != nil {
			return nil, fmt.Errorf("unmarshal simulation results: %w", err)
		}
		node.SimulationResults = &results
	}
	node.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &node, nil
}
