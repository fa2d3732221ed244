package enrich

// Result is the typed outcome of enriching one story: a category from the
// taxonomy, a top-section flag, a display title (translated when the channel
// asks for it), and a one-sentence summary.
type Result struct {
	Category string
	IsTop    bool
	Title    string
	Summary  string
}

// Serialize renders a Result in the same line grammar the generation API
// returns, which is also the enrichment cache value format.
func (r Result) Serialize() string {
	rank := "regular"
	if r.IsTop {
		rank = "top"
	}
	return "category=" + r.Category + ",rank=" + rank + ",title=" + r.Title + ",summary=" + r.Summary
}
