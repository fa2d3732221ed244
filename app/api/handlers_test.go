package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hndigest/app/config"
	"hndigest/app/digest"
)

type fakeRunner struct {
	d   digest.Digest
	err error
}

func (f *fakeRunner) Run(ctx context.Context, channel *config.Channel) (digest.Digest, error) {
	return f.d, f.err
}

func testChannels() map[string]*config.Channel {
	return map[string]*config.Channel{
		"hn_en": {ID: "hn_en", Title: "HN Weekly", Language: "en", Days: 7, Limit: 50},
		"hn_ru": {ID: "hn_ru", Title: "HN Дайджест", Language: "ru", Days: 7, Limit: 50},
	}
}

func request(t *testing.T, engine http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHandler_GetHealth(t *testing.T) {
	engine := NewServer(NewHandler(testChannels(), &fakeRunner{}, "1.0.0"), "")

	w := request(t, engine, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
	if body["channels"] != float64(2) {
		t.Errorf("Expected 2 channels, got %v", body["channels"])
	}
}

func TestHandler_ListChannels(t *testing.T) {
	engine := NewServer(NewHandler(testChannels(), &fakeRunner{}, "1.0.0"), "")

	w := request(t, engine, http.MethodGet, "/channels", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body struct {
		Channels []struct {
			ID string `json:"id"`
		} `json:"channels"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(body.Channels) != 2 {
		t.Fatalf("Expected 2 channels, got %d", len(body.Channels))
	}
	// Sorted by id
	if body.Channels[0].ID != "hn_en" || body.Channels[1].ID != "hn_ru" {
		t.Errorf("Unexpected channel order: %+v", body.Channels)
	}
}

func TestHandler_GetDigest(t *testing.T) {
	runner := &fakeRunner{d: digest.Digest{
		Channel: "hn_en",
		Issue:   7,
		Messages: []digest.Message{
			{Text: "root"},
			{Category: "ai", Label: "AI", Text: "section"},
		},
	}}
	engine := NewServer(NewHandler(testChannels(), runner, "1.0.0"), "")

	w := request(t, engine, http.MethodGet, "/digest/hn_en", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Channel  string `json:"channel"`
		Issue    int    `json:"issue"`
		Sections []struct {
			Category string `json:"category"`
			Text     string `json:"text"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body.Channel != "hn_en" || body.Issue != 7 {
		t.Errorf("Unexpected digest metadata: %+v", body)
	}
	if len(body.Sections) != 2 || body.Sections[1].Category != "ai" {
		t.Errorf("Unexpected sections: %+v", body.Sections)
	}
}

func TestHandler_GetDigest_UnknownChannel(t *testing.T) {
	engine := NewServer(NewHandler(testChannels(), &fakeRunner{}, "1.0.0"), "")

	w := request(t, engine, http.MethodGet, "/digest/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestHandler_GetDigest_RunnerError(t *testing.T) {
	engine := NewServer(NewHandler(testChannels(), &fakeRunner{err: errors.New("boom")}, "1.0.0"), "")

	w := request(t, engine, http.MethodGet, "/digest/hn_en", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	engine := NewServer(NewHandler(testChannels(), &fakeRunner{d: digest.Digest{Messages: []digest.Message{{Text: "root"}}}}, "1.0.0"), "secret")

	w := request(t, engine, http.MethodGet, "/digest/hn_en", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", w.Code)
	}

	w = request(t, engine, http.MethodGet, "/digest/hn_en", map[string]string{"X-API-Key": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong key, got %d", w.Code)
	}

	w = request(t, engine, http.MethodGet, "/digest/hn_en", map[string]string{"X-API-Key": "secret"})
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid key, got %d", w.Code)
	}

	w = request(t, engine, http.MethodGet, "/digest/hn_en", map[string]string{"Authorization": "Bearer secret"})
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with bearer token, got %d", w.Code)
	}

	// Health stays open
	w = request(t, engine, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Health should not require a key, got %d", w.Code)
	}
}
