package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/synthlab-io/synthlab/internal/exploration"
	"github.com/synthlab-io/synthlab/internal/models"
)

const (
	openAIEndpoint     = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIProposer implements exploration.Proposer using the OpenAI chat
// completions API. A custom BaseURL makes it work against any
// OpenAI-compatible endpoint.
type OpenAIProposer struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIProposer creates a proposer backed by the OpenAI API.
// If config.APIKey is empty, it falls back to the OPENAI_API_KEY
// environment variable. If config.Model is empty, it defaults to
// gpt-4o-mini.
func NewOpenAIProposer(config ClientConfig) *OpenAIProposer {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = openAIEndpoint
	}

	model := config.Model
	if model == "" {
		model = openAIDefaultModel
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIProposer{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// openAIChatRequest represents a request to the OpenAI chat completions API.
type openAIChatRequest struct {
	Model    string              `json:"model"`
	Messages []openAIChatMessage `json:"messages"`
}

// openAIChatMessage represents a message in the OpenAI chat format.
type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIChatResponse represents a response from the OpenAI chat completions API.
type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Propose requests scorecard modifications for the node and parses the
// structured JSON response.
func (p *OpenAIProposer) Propose(ctx context.Context, node models.ScenarioNode, hint exploration.BudgetHint) ([]models.ActionProposal, error) {
	if !p.Available() {
		return nil, fmt.Errorf("openai proposer not available: missing API key")
	}

	response, err := p.callAPI(ctx, ProposalPrompt(node, hint))
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI API: %w", err)
	}

	proposals, err := ParseProposalResponse(response)
	if err != nil {
		return nil, fmt.Errorf("parsing proposal response: %w", err)
	}
	return proposals, nil
}

// Available returns true if the OpenAI API key is present.
func (p *OpenAIProposer) Available() bool {
	return p.apiKey != ""
}

// callAPI makes a request to the OpenAI chat completions API.
func (p *OpenAIProposer) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := openAIChatRequest{
		Model: p.model,
		Messages: []openAIChatMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp openAIChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("parsing API response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in API response")
	}

	return chatResp.Choices[0].Message.Content, nil
}
