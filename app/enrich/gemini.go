package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

const (
	generateTimeout = 120 * time.Second
	maxAttempts     = 3
	backoffStep     = 10 * time.Second

	temperature     = 0.3
	maxOutputTokens = 8000
)

// Generator is a stateless text-completion collaborator: one prompt in, one
// generated text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient implements Generator against the Gemini generateContent API.
// Rate-limit responses are retried with linearly increasing backoff; any
// other failure aborts immediately.
type GeminiClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	sleep      func(time.Duration)
}

var _ Generator = (*GeminiClient)(nil)

func NewGeminiClient(apiKey string, httpClient *http.Client) *GeminiClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: generateTimeout}
	}
	return &GeminiClient{
		endpoint:   defaultGeminiEndpoint,
		apiKey:     apiKey,
		httpClient: httpClient,
		sleep:      time.Sleep,
	}
}

type generateRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig generationCfg   `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationCfg struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate issues the batched generation call. Up to three attempts total; a
// 429 waits 10s times the attempt number before retrying, anything else
// fails straight away.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, retryable, err := c.generateOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		if attempt < maxAttempts {
			wait := time.Duration(attempt) * backoffStep
			slog.Warn("Generation API rate limited, backing off", "attempt", attempt, "wait", wait)
			c.sleep(wait)
		}
	}
	return "", fmt.Errorf("generation failed after %d attempts: %w", maxAttempts, lastErr)
}

func (c *GeminiClient) generateOnce(ctx context.Context, prompt string) (string, bool, error) {
	body, err := json.Marshal(generateRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationCfg{Temperature: temperature, MaxOutputTokens: maxOutputTokens},
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to marshal request: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodPost, c.endpoint+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", true, fmt.Errorf("generation API rate limited: %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", false, fmt.Errorf("generation API error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", false, fmt.Errorf("generation response has no candidates")
	}

	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), false, nil
}
