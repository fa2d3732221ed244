package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestGeminiClient(serverURL string) (*GeminiClient, *[]time.Duration) {
	var sleeps []time.Duration
	client := &GeminiClient{
		endpoint:   serverURL,
		apiKey:     "test-key",
		httpClient: http.DefaultClient,
		sleep:      func(d time.Duration) { sleeps = append(sleeps, d) },
	}
	return client, &sleeps
}

func generationJSON(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
}

func TestGeminiClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("Expected API key in query, got %s", r.URL.RawQuery)
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "the prompt" {
			t.Errorf("Unexpected request contents: %+v", req.Contents)
		}
		if req.GenerationConfig.MaxOutputTokens != 8000 {
			t.Errorf("Unexpected maxOutputTokens: %d", req.GenerationConfig.MaxOutputTokens)
		}

		json.NewEncoder(w).Encode(generationJSON("1. category=ai, rank=top, title=T, summary=S"))
	}))
	defer server.Close()

	client, sleeps := newTestGeminiClient(server.URL)
	text, err := client.Generate(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "1. category=ai, rank=top, title=T, summary=S" {
		t.Errorf("Unexpected text: %q", text)
	}
	if len(*sleeps) != 0 {
		t.Errorf("Successful first attempt should not sleep, got %v", *sleeps)
	}
}

func TestGeminiClient_Generate_RetriesRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(generationJSON("recovered"))
	}))
	defer server.Close()

	client, sleeps := newTestGeminiClient(server.URL)
	text, err := client.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate should recover after rate limits: %v", err)
	}
	if text != "recovered" {
		t.Errorf("Unexpected text: %q", text)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}

	// Linear backoff: 10s after the first 429, 20s after the second
	want := []time.Duration{10 * time.Second, 20 * time.Second}
	if len(*sleeps) != len(want) {
		t.Fatalf("Expected %d sleeps, got %v", len(want), *sleeps)
	}
	for i, d := range want {
		if (*sleeps)[i] != d {
			t.Errorf("Sleep %d: expected %v, got %v", i, d, (*sleeps)[i])
		}
	}
}

func TestGeminiClient_Generate_RateLimitExhausted(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, _ := newTestGeminiClient(server.URL)
	if _, err := client.Generate(context.Background(), "p"); err == nil {
		t.Error("Expected error after exhausting attempts")
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestGeminiClient_Generate_OtherErrorAborts(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client, sleeps := newTestGeminiClient(server.URL)
	if _, err := client.Generate(context.Background(), "p"); err == nil {
		t.Error("Expected error")
	}
	if attempts != 1 {
		t.Errorf("Non-429 errors should not be retried, got %d attempts", attempts)
	}
	if len(*sleeps) != 0 {
		t.Errorf("Non-429 errors should not back off, got %v", *sleeps)
	}
}

func TestGeminiClient_Generate_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{})
	}))
	defer server.Close()

	client, _ := newTestGeminiClient(server.URL)
	if _, err := client.Generate(context.Background(), "p"); err == nil {
		t.Error("Expected error for empty candidates")
	}
}
