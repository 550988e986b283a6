package llm

import (
	"strings"
	"testing"
)

func TestClientConfig_RedactedAPIKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", ""},
		{"short", "sk-short", "(set)"},
		{"long", "sk-ant-abcdefghijklmnop", "sk-a...mnop"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := ClientConfig{APIKey: tc.key}
			if got := cfg.RedactedAPIKey(); got != tc.want {
				t.Errorf("RedactedAPIKey() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClientConfig_String(t *testing.T) {
	cfg := ClientConfig{Provider: "anthropic", APIKey: "sk-ant-abcdefghijklmnop", Model: "test-model"}
	s := cfg.String()
	if strings.Contains(s, "abcdefghijkl") {
		t.Errorf("String() leaks the API key: %s", s)
	}
	if !strings.Contains(s, "anthropic") || !strings.Contains(s, "test-model") {
		t.Errorf("String() missing fields: %s", s)
	}
}

func TestAvailability(t *testing.T) {
	// The constructors fall back to env keys; clear them for a hermetic test.
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	t.Run("anthropic needs a key", func(t *testing.T) {
		if NewAnthropicProposer(ClientConfig{}).Available() {
			t.Error("anthropic without key should be unavailable")
		}
		if !NewAnthropicProposer(ClientConfig{APIKey: "sk-test"}).Available() {
			t.Error("anthropic with key should be available")
		}
	})

	t.Run("openai needs a key", func(t *testing.T) {
		if NewOpenAIProposer(ClientConfig{}).Available() {
			t.Error("openai without key should be unavailable")
		}
		if !NewOpenAIProposer(ClientConfig{APIKey: "sk-test"}).Available() {
			t.Error("openai with key should be available")
		}
	})
}
