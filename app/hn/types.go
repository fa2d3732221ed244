package hn

import (
	"fmt"

	"hndigest/app/config"
)

// Search API tags. Thread kinds are mutually exclusive classifications at the
// source and are fetched separately with a lower score threshold.
const (
	TagStory  = "story"
	TagShowHN = "show_hn"
	TagAskHN  = "ask_hn"
)

// Story is the unit flowing through the pipeline. The Fetcher fills the first
// block, the Selector derives Score and Domain, enrichment fills the rest.
// Stories are read-only after enrichment.
type Story struct {
	ID       int
	Title    string
	URL      string // empty = discussion-only post
	Points   int
	Comments int

	Score  int
	Domain string

	Category     string
	IsTop        bool
	DisplayTitle string // translated title, empty = use Title
	Summary      string
}

// ItemURL returns the discussion thread page for the story.
func (s Story) ItemURL() string {
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%d", s.ID)
}

// IsThreadKind reports whether the story belongs to a Show HN / Ask HN
// section, which render without summaries and link to the discussion thread.
func (s Story) IsThreadKind() bool {
	return s.Category == config.CategoryShowHN || s.Category == config.CategoryAskHN
}
