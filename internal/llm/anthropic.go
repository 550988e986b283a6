package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/synthlab-io/synthlab/internal/exploration"
	"github.com/synthlab-io/synthlab/internal/models"
)

const (
	anthropicAPIURL     = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion = "2023-06-01"
	anthropicModel      = "claude-3-5-haiku-latest"
)

// AnthropicProposer implements exploration.Proposer using the Anthropic
// Messages API.
type AnthropicProposer struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicProposer creates a proposer backed by the Anthropic API.
// If config.APIKey is empty, it falls back to the ANTHROPIC_API_KEY
// environment variable. If config.Model is empty, it defaults to
// claude-3-5-haiku-latest. If config.Timeout is zero, it defaults to 30s.
func NewAnthropicProposer(config ClientConfig) *AnthropicProposer {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	model := config.Model
	if model == "" {
		model = anthropicModel
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &AnthropicProposer{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// anthropicRequest represents a request to the Anthropic Messages API.
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

// anthropicMessage represents a message in the Anthropic API format.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse represents a response from the Anthropic Messages API.
type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Propose requests scorecard modifications for the node and parses the
// structured JSON response.
func (p *AnthropicProposer) Propose(ctx context.Context, node models.ScenarioNode, hint exploration.BudgetHint) ([]models.ActionProposal, error) {
	if !p.Available() {
		return nil, fmt.Errorf("anthropic proposer not available: missing API key")
	}

	prompt := ProposalPrompt(node, hint)
	response, err := p.sendRequest(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("requesting proposals: %w", err)
	}

	proposals, err := ParseProposalResponse(response)
	if err != nil {
		return nil, fmt.Errorf("parsing proposal response: %w", err)
	}
	return proposals, nil
}

// Available returns true if the API key is present.
func (p *AnthropicProposer) Available() bool {
	return p.apiKey != ""
}

// sendRequest sends a prompt to the Anthropic API and returns the response text.
func (p *AnthropicProposer) sendRequest(ctx context.Context, prompt string) (string, error) {
	reqBody := anthropicRequest{
		Model:     p.model,
		MaxTokens: 2048,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("parsing API response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	// Extract text from the first content block
	for _, content := range apiResp.Content {
		if content.Type == "text" {
			return content.Text, nil
		}
	}

	return "", fmt.Errorf("no text content in API response")
}
