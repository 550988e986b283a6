package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/synthlab-io/synthlab/internal/exploration"
	"github.com/synthlab-io/synthlab/internal/models"
)

// ProposalPrompt generates a structured prompt asking the model for
// scorecard modifications that raise the simulated success rate.
func ProposalPrompt(node models.ScenarioNode, hint exploration.BudgetHint) string {
	rates := models.OutcomeRates{}
	if node.SimulationResults != nil {
		rates = node.SimulationResults.Aggregate
	}

	return fmt.Sprintf(`You are advising a product team on how to modify a proposed feature so that more simulated users adopt it successfully.

## Current Scorecard
Each dimension is a score in [0,1] where LOWER is better:
- complexity: %.2f
- initial_effort: %.2f
- perceived_risk: %.2f
- time_to_value: %.2f

## Simulated Outcomes
- success_rate: %.3f
- failed_rate: %.3f
- did_not_try_rate: %.3f

## Goal
Raise success_rate to at least %.2f. The best rate seen so far is %.3f.
The search may go %d more levels deep and has %d generator calls left.

## Task
Propose up to %d concrete product actions. Each action modifies one or more
scorecard dimensions by a signed delta in [-0.3, 0.3] (negative deltas
improve a dimension).

## Response Format
Respond with ONLY a JSON array (no markdown code blocks, no additional text):
[
  {
    "action": "<full description of the product action>",
    "short_action": "<3-6 word summary>",
    "category": "<one of: onboarding, ux, trust, performance, pricing, docs>",
    "rationale": "<why this should move the outcome>",
    "impacts": {"<dimension>": <signed delta>}
  }
]`,
		node.ScorecardParams.Complexity,
		node.ScorecardParams.InitialEffort,
		node.ScorecardParams.PerceivedRisk,
		node.ScorecardParams.TimeToValue,
		rates.SuccessRate, rates.FailedRate, rates.DidNotTryRate,
		hint.GoalValue, hint.BestSuccessRate,
		hint.RemainingDepth, hint.RemainingCalls,
		hint.MaxProposals)
}

// ParseProposalResponse parses an LLM response into action proposals.
// It handles both raw JSON and JSON wrapped in markdown code blocks.
// Proposals missing an action or impacts are dropped rather than failing
// the whole response; impact clamping happens downstream.
func ParseProposalResponse(response string) ([]models.ActionProposal, error) {
	jsonStr := ExtractJSON(response)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var raw []models.ActionProposal
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("parsing proposals: %w", err)
	}

	proposals := make([]models.ActionProposal, 0, len(raw))
	for _, p := range raw {
		if p.Action == "" || len(p.Impacts) == 0 {
			continue
		}
		if p.ShortAction == "" {
			p.ShortAction = truncate(p.Action, 48)
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

// ExtractJSON extracts JSON content from a string, handling markdown code
// blocks. It looks for JSON wrapped in ```json...``` or ```...``` blocks,
// or returns the input if it appears to be raw JSON.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)

	// Try to extract from markdown code block with json language tag
	jsonBlockRe := regexp.MustCompile("(?s)```json\\s*\\n?(.*?)\\s*```")
	if matches := jsonBlockRe.FindStringSubmatch(s); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// Try to extract from generic markdown code block
	genericBlockRe := regexp.MustCompile("(?s)```\\s*\\n?(.*?)\\s*```")
	if matches := genericBlockRe.FindStringSubmatch(s); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// Check if the string itself looks like JSON (starts with { or [)
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}

	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
