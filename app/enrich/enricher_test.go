package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hndigest/app/cache"
	"hndigest/app/config"
	"hndigest/app/hn"
)

type fakeGenerator struct {
	calls      int
	response   string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.response, f.err
}

func newTestStore(t *testing.T) cache.Store {
	t.Helper()
	store, err := cache.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func testStories() []hn.Story {
	return []hn.Story{
		{ID: 1, Title: "First story title", Points: 100, Comments: 20},
		{ID: 2, Title: "Second story title", Points: 80, Comments: 10},
	}
}

func testChannel() *config.Channel {
	return &config.Channel{ID: "test", Language: "en"}
}

func TestEnricher_Enrich_CacheIdempotence(t *testing.T) {
	generator := &fakeGenerator{response: "1. category=ai, rank=top, title=First, summary=S1\n2. category=code, rank=regular, title=Second, summary=S2"}
	enricher := NewEnricher(generator, newTestStore(t), config.DefaultTaxonomy())

	stories := testStories()
	contents := map[int]string{1: "article one", 2: "article two"}

	first := enricher.Enrich(context.Background(), stories, contents, testChannel())
	if len(first) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(first))
	}
	if generator.calls != 1 {
		t.Fatalf("Expected 1 generation call, got %d", generator.calls)
	}

	second := enricher.Enrich(context.Background(), stories, contents, testChannel())
	if generator.calls != 1 {
		t.Errorf("Second run should be served from cache, got %d calls", generator.calls)
	}
	if len(second) != 2 {
		t.Fatalf("Expected 2 cached results, got %d", len(second))
	}
	for id := range first {
		if first[id] != second[id] {
			t.Errorf("Story %d: cached result differs: %+v != %+v", id, first[id], second[id])
		}
	}
}

func TestEnricher_Enrich_CacheKeyedByContent(t *testing.T) {
	generator := &fakeGenerator{response: "1. category=ai, rank=top, title=First, summary=S1\n2. category=code, rank=regular, title=Second, summary=S2"}
	enricher := NewEnricher(generator, newTestStore(t), config.DefaultTaxonomy())

	stories := testStories()
	enricher.Enrich(context.Background(), stories, map[int]string{1: "article one"}, testChannel())

	// Changed article content invalidates that story's cache entry
	enricher.Enrich(context.Background(), stories, map[int]string{1: "article one, revised"}, testChannel())
	if generator.calls != 2 {
		t.Errorf("Changed content should force a new generation call, got %d", generator.calls)
	}
}

func TestEnricher_Enrich_NilGenerator(t *testing.T) {
	store := newTestStore(t)
	taxonomy := config.DefaultTaxonomy()

	// Warm the cache for story 1 through a generator-backed enricher
	warm := NewEnricher(&fakeGenerator{response: "1. category=ai, rank=top, title=First, summary=S1"}, store, taxonomy)
	warm.Enrich(context.Background(), testStories()[:1], nil, testChannel())

	enricher := NewEnricher(nil, store, taxonomy)
	results := enricher.Enrich(context.Background(), testStories(), nil, testChannel())

	if len(results) != 1 {
		t.Fatalf("Expected only the cached story, got %d results", len(results))
	}
	if results[1].Category != "ai" {
		t.Errorf("Unexpected cached result: %+v", results[1])
	}
}

func TestEnricher_Enrich_PartialResponse(t *testing.T) {
	generator := &fakeGenerator{response: "1. category=ai, rank=top, title=First, summary=S1\ngarbage line the parser skips"}
	enricher := NewEnricher(generator, newTestStore(t), config.DefaultTaxonomy())

	results := enricher.Enrich(context.Background(), testStories(), nil, testChannel())

	if len(results) != 1 {
		t.Fatalf("Expected 1 result from partial response, got %d", len(results))
	}
	if _, ok := results[2]; ok {
		t.Error("Story 2 had no valid line and should be missing")
	}

	// The parsed line was cached even though the batch was incomplete
	enricher.Enrich(context.Background(), testStories()[:1], nil, testChannel())
	if generator.calls != 1 {
		t.Errorf("Cached story should not trigger another call, got %d", generator.calls)
	}
}

func TestEnricher_Enrich_GenerationFailure(t *testing.T) {
	generator := &fakeGenerator{err: errors.New("boom")}
	enricher := NewEnricher(generator, newTestStore(t), config.DefaultTaxonomy())

	results := enricher.Enrich(context.Background(), testStories(), nil, testChannel())
	if len(results) != 0 {
		t.Errorf("Total failure with a cold cache should yield no results, got %d", len(results))
	}
}

func TestEnricher_Enrich_PromptCoversAllStories(t *testing.T) {
	generator := &fakeGenerator{response: ""}
	enricher := NewEnricher(generator, newTestStore(t), config.DefaultTaxonomy())

	enricher.Enrich(context.Background(), testStories(), map[int]string{1: "article text"}, testChannel())

	if !strings.Contains(generator.lastPrompt, "First story title") || !strings.Contains(generator.lastPrompt, "Second story title") {
		t.Error("Prompt should include every story title")
	}
	if !strings.Contains(generator.lastPrompt, "article text") {
		t.Error("Prompt should include fetched article content")
	}
}

func TestEnricher_Enrich_Empty(t *testing.T) {
	generator := &fakeGenerator{}
	enricher := NewEnricher(generator, newTestStore(t), config.DefaultTaxonomy())

	results := enricher.Enrich(context.Background(), nil, nil, testChannel())
	if len(results) != 0 || generator.calls != 0 {
		t.Errorf("Empty input should short-circuit, got %d results %d calls", len(results), generator.calls)
	}
}
