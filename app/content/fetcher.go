package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"hndigest/app/cache"
	"hndigest/app/hn"
)

const (
	// Extracted article text is capped before caching.
	maxWords = 3000

	fetchTimeout = 15 * time.Second
)

// Fetcher downloads story articles with a bounded worker pool and extracts
// plain text, caching results by URL digest. Failed fetches are cached as
// empty text so they are not retried on the next run.
type Fetcher struct {
	httpClient *http.Client
	extractor  *Extractor
	store      cache.Store
	userAgent  string
	workers    int
}

func NewFetcher(httpClient *http.Client, store cache.Store, userAgent string, workers int) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}
	if workers <= 0 {
		workers = 10
	}
	return &Fetcher{
		httpClient: httpClient,
		extractor:  NewExtractor(),
		store:      store,
		userAgent:  userAgent,
		workers:    workers,
	}
}

// FetchAll returns extracted article text keyed by story ID. Stories without
// a URL map to empty text. Completion order does not affect the result.
func (f *Fetcher) FetchAll(ctx context.Context, stories []hn.Story) map[int]string {
	results := make(map[int]string, len(stories))
	var pending []hn.Story
	for _, story := range stories {
		if story.URL == "" {
			results[story.ID] = ""
			continue
		}
		pending = append(pending, story)
	}

	if len(pending) == 0 {
		return results
	}

	slog.Info("Fetching article content", "count", len(pending), "workers", f.workers)

	jobs := make(chan hn.Story)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for story := range jobs {
				text := f.fetchOne(ctx, story.URL)
				mu.Lock()
				results[story.ID] = text
				mu.Unlock()
			}
		}()
	}

	for _, story := range pending {
		select {
		case jobs <- story:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return results
		}
	}
	close(jobs)
	wg.Wait()

	fetched := 0
	for _, text := range results {
		if text != "" {
			fetched++
		}
	}
	slog.Info("Article content extracted", "extracted", fetched, "total", len(pending))

	return results
}

// fetchOne serves a single URL from cache or the network. The cache also
// records failures (as empty text), so a dead link costs one request total
// across runs.
func (f *Fetcher) fetchOne(ctx context.Context, url string) string {
	key := cache.Digest(url)
	if cached, ok, err := f.store.Get(key); err == nil && ok {
		return cached
	}

	text := ""
	data, err := f.download(ctx, url)
	if err != nil {
		slog.Debug("Article fetch failed", "url", url, "error", err)
	} else if extracted, err := f.extractor.Run(data); err != nil {
		slog.Debug("Article extraction failed", "url", url, "error", err)
	} else {
		text = truncateWords(extracted, maxWords)
	}

	if err := f.store.Set(key, text); err != nil {
		slog.Warn("Failed to write content cache", "url", url, "error", err)
	}

	return text
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
