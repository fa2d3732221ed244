package hn

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultSearchURL = "https://hn.algolia.com/api/v1/search_by_date"

	hitsPerPage = 100
	maxPages    = 5

	// Politeness delay between result pages.
	pageDelay = 200 * time.Millisecond
)

// Client queries the Algolia story-search API page by page.
type Client struct {
	searchURL  string
	httpClient *http.Client
	userAgent  string
}

// NewClient wires an HTTP client; a nil client gets a 30s timeout default.
func NewClient(httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		searchURL:  defaultSearchURL,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

type searchHit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
}

type searchResponse struct {
	Hits []searchHit `json:"hits"`
}

// Fetch returns stories created in the last windowDays with at least minPoints
// points, filtered by tag. Fetching is fail-soft: a request failure stops
// paging and returns whatever was accumulated so far.
func (c *Client) Fetch(ctx context.Context, windowDays, minPoints int, tag string) []Story {
	since := time.Now().UTC().Add(-time.Duration(windowDays) * 24 * time.Hour).Unix()

	var stories []Story
	for page := 0; page < maxPages; page++ {
		hits, err := c.fetchPage(ctx, since, minPoints, tag, page)
		if err != nil {
			slog.Warn("Story fetch failed, keeping partial results", "tag", tag, "page", page, "error", err)
			break
		}
		if len(hits) == 0 {
			break
		}

		for _, h := range hits {
			id, err := strconv.Atoi(h.ObjectID)
			if err != nil {
				continue
			}
			stories = append(stories, Story{
				ID:       id,
				Title:    h.Title,
				URL:      h.URL,
				Points:   h.Points,
				Comments: h.NumComments,
			})
		}

		select {
		case <-ctx.Done():
			return stories
		case <-time.After(pageDelay):
		}
	}

	return stories
}

func (c *Client) fetchPage(ctx context.Context, since int64, minPoints int, tag string, page int) ([]searchHit, error) {
	params := url.Values{}
	params.Set("tags", tag)
	params.Set("numericFilters", fmt.Sprintf("created_at_i>%d,points>=%d", since, minPoints))
	params.Set("hitsPerPage", strconv.Itoa(hitsPerPage))
	params.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %s", resp.Status)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return parsed.Hits, nil
}
