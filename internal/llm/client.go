// Package llm provides proposal-generator backends for the exploration
// controller: Anthropic and OpenAI clients, a deterministic heuristic
// fallback, and a call-recording mock for tests. All backends implement
// exploration.Proposer.
package llm

import (
	"fmt"
	"time"
)

// ClientConfig configures a proposal-generator client.
type ClientConfig struct {
	// Provider identifies the backend: "anthropic", "openai", "heuristic",
	// or "" for heuristic.
	Provider string `json:"provider" yaml:"provider"`

	// APIKey is the API key for the provider (not used for heuristic).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint. Used for OpenAI-compatible
	// endpoints.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the model identifier to use for requests.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Timeout is the maximum duration to wait for a response.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultConfig returns a ClientConfig with sensible defaults.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Provider: "heuristic",
		Timeout:  30 * time.Second,
	}
}

// RedactedAPIKey returns the API key with most characters masked.
// Shows first 4 and last 4 characters, e.g., "sk-a...xyz9".
// Returns "" for empty keys and "(set)" for keys shorter than 12 chars.
func (c ClientConfig) RedactedAPIKey() string {
	if c.APIKey == "" {
		return ""
	}
	if len(c.APIKey) < 12 {
		return "(set)"
	}
	return c.APIKey[:4] + "..." + c.APIKey[len(c.APIKey)-4:]
}

// String implements fmt.Stringer to prevent accidental API key logging.
func (c ClientConfig) String() string {
	return fmt.Sprintf("ClientConfig{Provider:%s, APIKey:%s, Model:%s}",
		c.Provider, c.RedactedAPIKey(), c.Model)
}

// Availability is implemented by backends that can report whether they are
// configured and ready to handle requests. For API-based backends this
// checks that credentials are present.
type Availability interface {
	Available() bool
}
