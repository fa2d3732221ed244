package enrich

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"hndigest/app/cache"
	"hndigest/app/config"
	"hndigest/app/hn"
)

// cacheVersion tags enrichment cache keys so a prompt or grammar change
// invalidates old entries.
const cacheVersion = "process_v1"

// Enricher categorizes, ranks, translates, and summarizes a story batch in a
// single generation call, backed by a content-addressed result cache. A nil
// Generator disables the network path entirely; callers then rely on the
// keyword classifier for categories.
type Enricher struct {
	generator Generator
	store     cache.Store
	parser    *Parser
	taxonomy  config.Taxonomy
}

func NewEnricher(generator Generator, store cache.Store, taxonomy config.Taxonomy) *Enricher {
	return &Enricher{
		generator: generator,
		store:     store,
		parser:    NewParser(taxonomy),
		taxonomy:  taxonomy,
	}
}

// Enrich returns results keyed by story ID. Cache hits never touch the
// network; if every story hits, no call is made at all. On total generation
// failure the cached subset is returned and missing stories are the caller's
// to fall back on.
func (e *Enricher) Enrich(ctx context.Context, stories []hn.Story, contents map[int]string, channel *config.Channel) map[int]Result {
	results := make(map[int]Result)
	if len(stories) == 0 {
		return results
	}

	for _, story := range stories {
		key := e.cacheKey(story, contents[story.ID], channel.Language)
		value, ok, err := e.store.Get(key)
		if err != nil || !ok {
			continue
		}
		if result, ok := e.parser.ParseCached(value); ok {
			results[story.ID] = result
		}
	}

	if len(results) == len(stories) {
		slog.Info("All stories found in enrichment cache", "count", len(stories))
		return results
	}

	if e.generator == nil {
		return results
	}

	prompt := BuildPrompt(stories, contents, channel, e.taxonomy)

	response, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("Enrichment failed, returning cached results only", "cached", len(results), "total", len(stories), "error", err)
		return results
	}

	parsed := e.parser.ParseResponse(response, len(stories))
	for idx, result := range parsed {
		story := stories[idx]
		results[story.ID] = result

		// Write-through per line: a later malformed line must not lose
		// this one.
		key := e.cacheKey(story, contents[story.ID], channel.Language)
		if err := e.store.Set(key, result.Serialize()); err != nil {
			slog.Warn("Failed to write enrichment cache", "story_id", story.ID, "error", err)
		}
	}

	slog.Info("Stories enriched", "enriched", len(parsed), "total", len(stories))
	return results
}

// cacheKey is a digest over everything that affects one story's result:
// pipeline version, story identity, a short content fingerprint, and target
// language. Identical inputs always produce the same key.
func (e *Enricher) cacheKey(story hn.Story, content, language string) string {
	contentHash := "empty"
	if content != "" {
		contentHash = cache.ShortDigest(content)
	}
	raw := strings.Join([]string{cacheVersion, strconv.Itoa(story.ID), story.Title, contentHash, language}, "|")
	return cache.Digest(raw)
}
