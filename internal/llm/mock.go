package llm

import (
	"context"
	"sync"

	"github.com/synthlab-io/synthlab/internal/exploration"
	"github.com/synthlab-io/synthlab/internal/models"
)

// MockProposer implements exploration.Proposer for testing purposes.
// It allows configuring proposals per call, simulating errors, and
// tracking calls for verification.
type MockProposer struct {
	mu sync.Mutex

	// Configured responses
	proposals [][]models.ActionProposal // consumed in order; last entry repeats
	err       error
	available bool

	// Call tracking
	Calls []ProposeCall
}

// ProposeCall records a call to Propose.
type ProposeCall struct {
	Node models.ScenarioNode
	Hint exploration.BudgetHint
}

// NewMockProposer creates a new MockProposer with default settings.
// By default, it is available and returns no proposals.
func NewMockProposer() *MockProposer {
	return &MockProposer{
		available: true,
		Calls:     make([]ProposeCall, 0),
	}
}

// WithProposals queues proposal batches. Each Propose call consumes the
// next batch; the final batch repeats once the queue is exhausted.
func (m *MockProposer) WithProposals(batches ...[]models.ActionProposal) *MockProposer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals = batches
	return m
}

// WithError configures the error returned by Propose.
func (m *MockProposer) WithError(err error) *MockProposer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithAvailable configures whether Available() returns true or false.
func (m *MockProposer) WithAvailable(available bool) *MockProposer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
	return m
}

// Propose implements exploration.Proposer.
// It records the call and returns the next configured batch or error.
func (m *MockProposer) Propose(ctx context.Context, node models.ScenarioNode, hint exploration.BudgetHint) ([]models.ActionProposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, ProposeCall{Node: node, Hint: hint})

	if m.err != nil {
		return nil, m.err
	}
	if len(m.proposals) == 0 {
		return nil, nil
	}

	batch := m.proposals[0]
	if len(m.proposals) > 1 {
		m.proposals = m.proposals[1:]
	}
	return batch, nil
}

// Available implements the Availability interface.
func (m *MockProposer) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// CallCount returns the number of times Propose was called.
func (m *MockProposer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Reset clears all call tracking and resets configured responses.
func (m *MockProposer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals = nil
	m.err = nil
	m.available = true
	m.Calls = make([]ProposeCall, 0)
}
