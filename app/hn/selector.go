package hn

import (
	"net/url"
	"sort"
	"strings"
)

const (
	// A story with no URL needs a title of at least this many runes to stand
	// on its own in the digest.
	minBareTitleLength = 20

	// Greedy per-domain cap during selection.
	maxPerDomain = 3

	// How many stories of each thread kind are merged into the main list.
	specialKindQuota = 2
)

// Selector scores, filters, and caps per-domain representation to produce the
// ranked candidate list consumed by the rest of the pipeline.
type Selector struct {
	jobPhrases []string
}

// NewSelector builds a selector with the given job-posting phrase list.
func NewSelector(jobPhrases []string) *Selector {
	return &Selector{jobPhrases: jobPhrases}
}

// Select returns up to limit stories, highest score first, with at most three
// stories per source domain. Deterministic given identical input order.
func (s *Selector) Select(stories []Story, limit int) []Story {
	filtered := make([]Story, 0, len(stories))
	for _, story := range stories {
		if s.isJobPosting(story.Title) {
			continue
		}
		if story.URL == "" && len([]rune(story.Title)) < minBareTitleLength {
			continue
		}
		story.Score = story.Points + 2*story.Comments
		story.Domain = domainOf(story.URL)
		filtered = append(filtered, story)
	}

	// Stable keeps original fetch order for equal scores.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	domainCount := make(map[string]int)
	result := make([]Story, 0, limit)
	for _, story := range filtered {
		if domainCount[story.Domain] >= maxPerDomain {
			continue
		}
		result = append(result, story)
		domainCount[story.Domain]++
		if len(result) >= limit {
			break
		}
	}

	return result
}

// MergeSpecial appends the top stories of each thread-kind selection to the
// main list. Thread-kind stories are additive: a story already selected is
// never replaced or duplicated.
func (s *Selector) MergeSpecial(main, showHN, askHN []Story) []Story {
	existing := make(map[int]struct{}, len(main))
	for _, story := range main {
		existing[story.ID] = struct{}{}
	}

	merged := main
	for _, special := range [][]Story{s.Select(showHN, specialKindQuota), s.Select(askHN, specialKindQuota)} {
		for _, story := range special {
			if _, ok := existing[story.ID]; ok {
				continue
			}
			merged = append(merged, story)
			existing[story.ID] = struct{}{}
		}
	}

	return merged
}

func (s *Selector) isJobPosting(title string) bool {
	lower := strings.ToLower(title)
	for _, phrase := range s.jobPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// domainOf extracts the URL host, stripping a leading "www." prefix.
// Discussion-only stories get an empty domain.
func domainOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
