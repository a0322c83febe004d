package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-planner/internal/config"
)

func TestGroqGenerateContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header: %s", r.Header.Get("Authorization"))
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Invalid request body: %v", err)
		}
		if body.Model != groqModel || len(body.Messages) != 1 || body.Messages[0].Content != "plan my week" {
			t.Errorf("Unexpected request body: %+v", body)
		}
		fmt.Fprint(w, `{
			"model": "llama-test",
			"choices": [{"message": {"content": "{\"days\": []}"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}
		}`)
	}))
	defer server.Close()

	client := NewGroqClient("test-key")
	client.url = server.URL

	resp, err := client.GenerateContent(context.Background(), "plan my week")
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}
	if resp.Content != `{"days": []}` {
		t.Errorf("Unexpected content: %s", resp.Content)
	}
	if resp.Usage.PromptTokens != 12 || resp.Usage.CompletionTokens != 4 || resp.Usage.Model != "llama-test" {
		t.Errorf("Unexpected usage: %+v", resp.Usage)
	}
}

func TestGroqErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"status", http.StatusTooManyRequests, `{"error": "slow down"}`, "status=429"},
		{"no choices", http.StatusOK, `{"choices": []}`, "no content generated"},
		{"bad json", http.StatusOK, `not json`, "failed to decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := NewGroqClient("k")
			client.url = server.URL
			_, err := client.GenerateContent(context.Background(), "x")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewTextGenerator(t *testing.T) {
	ctx := context.Background()

	if _, err := NewTextGenerator(ctx, &config.Config{}); !errors.Is(err, ErrNoProvider) {
		t.Errorf("Expected ErrNoProvider, got %v", err)
	}

	gen, err := NewTextGenerator(ctx, &config.Config{GroqAPIKey: "k"})
	if err != nil {
		t.Fatalf("Expected groq generator, got %v", err)
	}
	if _, ok := gen.(*groqClient); !ok {
		t.Errorf("Expected *groqClient, got %T", gen)
	}

	if _, err := NewTextGenerator(ctx, &config.Config{LLMProvider: "gemini", GroqAPIKey: "k"}); err == nil {
		t.Error("Expected error for gemini without key")
	}
	if _, err := NewTextGenerator(ctx, &config.Config{LLMProvider: "mistral", GroqAPIKey: "k"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
