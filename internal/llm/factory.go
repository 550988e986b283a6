package llm

import (
	"fmt"

	"github.com/synthlab-io/synthlab/internal/exploration"
)

// NewProposer creates the proposal-generator backend named by the config.
// An empty provider selects the heuristic fallback.
func NewProposer(config ClientConfig) (exploration.Proposer, error) {
	switch config.Provider {
	case "anthropic":
		return NewAnthropicProposer(config), nil
	case "openai":
		return NewOpenAIProposer(config), nil
	case "", "heuristic":
		return NewHeuristicProposer(), nil
	default:
		return nil, fmt.Errorf("unknown proposal provider: %s (valid: anthropic, openai, heuristic)", config.Provider)
	}
}
