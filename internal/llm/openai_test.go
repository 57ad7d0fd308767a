package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pawlens/pawlens/internal/model"
)

func TestNewOpenAIProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error without API key")
	}

	p, err := NewOpenAIProvider(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("Expected provider with key, got %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("Expected name openai, got %q", p.Name())
	}
}

func TestFromModel_MapsAllFields(t *testing.T) {
	cfg := FromModel(model.LLMConfig{
		APIKey: "k", BaseURL: "http://localhost", Model: "m",
		VisionModel: "vm", MaxTokens: 42, TimeoutSec: 7,
	})
	if cfg.APIKey != "k" || cfg.BaseURL != "http://localhost" || cfg.Model != "m" ||
		cfg.VisionModel != "vm" || cfg.MaxTokens != 42 || cfg.TimeoutSec != 7 {
		t.Errorf("Config not mapped faithfully: %+v", cfg)
	}
}

// chatServer fakes the chat completions endpoint with a fixed reply.
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply)
	}))
}

func TestOpenAIProvider_ExtractIngredients(t *testing.T) {
	server := chatServer(t, `["Chicken", "chicken meal", "brown rice"]`)
	defer server.Close()

	p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider failed: %v", err)
	}

	ingredients, err := p.ExtractIngredients(context.Background(), "some page text")
	if err != nil {
		t.Fatalf("ExtractIngredients failed: %v", err)
	}
	if len(ingredients) != 3 || ingredients[0] != "Chicken" {
		t.Errorf("Unexpected ingredients: %v", ingredients)
	}
}

func TestOpenAIProvider_ExtractIngredients_FencedResponse(t *testing.T) {
	server := chatServer(t, "```json\n[\"Chicken\", \"peas\"]\n```")
	defer server.Close()

	p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider failed: %v", err)
	}

	ingredients, err := p.ExtractIngredients(context.Background(), "page text")
	if err != nil {
		t.Fatalf("ExtractIngredients failed: %v", err)
	}
	if len(ingredients) != 2 {
		t.Errorf("Expected fenced JSON parsed, got %v", ingredients)
	}
}

func TestOpenAIProvider_ExtractIngredients_GarbageResponse(t *testing.T) {
	server := chatServer(t, "Sorry, I cannot find an ingredient list on this page.")
	defer server.Close()

	p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider failed: %v", err)
	}

	if _, err := p.ExtractIngredients(context.Background(), "page text"); err == nil {
		t.Error("Expected parse error for non-JSON reply")
	}
}

func TestOpenAIProvider_IdentifyProduct_ConfidenceTiers(t *testing.T) {
	cases := []struct {
		content string
		want    model.ConfidenceTier
	}{
		{`{"brand": "Acme", "name": "Chicken Dinner"}`, model.ConfidenceMedium},
		{`{"brand": "Acme", "name": ""}`, model.ConfidenceLow},
		{`{"brand": "", "name": ""}`, model.ConfidenceLow},
	}
	for _, tc := range cases {
		server := chatServer(t, tc.content)

		p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
		if err != nil {
			t.Fatalf("NewOpenAIProvider failed: %v", err)
		}
		guess, err := p.IdentifyProduct(context.Background(), "aW1hZ2U=")
		if err != nil {
			t.Fatalf("IdentifyProduct failed: %v", err)
		}
		if guess.Confidence != tc.want {
			t.Errorf("Content %s: expected confidence %s, got %s", tc.content, tc.want, guess.Confidence)
		}
		server.Close()
	}
}
