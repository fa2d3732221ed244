package enrich

import (
	"strings"

	"hndigest/app/config"
	"hndigest/app/hn"
)

// Classifier assigns a category from title keywords and source domain alone.
// It is the offline fallback used when no generation API key is configured or
// when a story is missing from the enrichment result.
type Classifier struct {
	taxonomy config.Taxonomy
}

func NewClassifier(taxonomy config.Taxonomy) *Classifier {
	return &Classifier{taxonomy: taxonomy}
}

// Classify returns the first matching category in taxonomy order. Thread-kind
// keywords are checked first and take absolute priority; with no match the
// default bucket is returned.
func (c *Classifier) Classify(story hn.Story) string {
	title := strings.ToLower(story.Title)
	domain := strings.ToLower(story.Domain)

	for _, key := range []string{config.CategoryShowHN, config.CategoryAskHN} {
		if cat, ok := c.taxonomy.Lookup(key); ok && matchesKeywords(title, cat.Keywords) {
			return key
		}
	}

	for _, cat := range c.taxonomy.Categories {
		if cat.Key == config.CategoryShowHN || cat.Key == config.CategoryAskHN {
			continue
		}
		if matchesKeywords(title, cat.Keywords) {
			return cat.Key
		}
		if matchesDomains(domain, cat.Domains) {
			return cat.Key
		}
	}

	return c.taxonomy.Default
}

func matchesKeywords(title string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

func matchesDomains(domain string, domains []string) bool {
	if domain == "" {
		return false
	}
	for _, d := range domains {
		if strings.Contains(domain, d) {
			return true
		}
	}
	return false
}
