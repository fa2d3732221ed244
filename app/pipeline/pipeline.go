package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"hndigest/app/config"
	"hndigest/app/content"
	"hndigest/app/digest"
	"hndigest/app/enrich"
	"hndigest/app/hn"
)

// Thread-kind stories are worth including at a lower score threshold than
// regular stories.
const specialMinPoints = 30

// Pipeline runs a full digest generation for one channel: fetch, select,
// extract content, enrich, assemble.
type Pipeline struct {
	client     *hn.Client
	selector   *hn.Selector
	fetcher    *content.Fetcher
	enricher   *enrich.Enricher
	classifier *enrich.Classifier
	assembler  *digest.Assembler
	taxonomy   config.Taxonomy
}

func New(client *hn.Client, fetcher *content.Fetcher, enricher *enrich.Enricher, taxonomy config.Taxonomy) *Pipeline {
	return &Pipeline{
		client:     client,
		selector:   hn.NewSelector(config.JobPhrases),
		fetcher:    fetcher,
		enricher:   enricher,
		classifier: enrich.NewClassifier(taxonomy),
		assembler:  digest.NewAssembler(taxonomy),
		taxonomy:   taxonomy,
	}
}

// Run produces the assembled digest for a channel.
func (p *Pipeline) Run(ctx context.Context, channel *config.Channel) (digest.Digest, error) {
	slog.Info("Generating digest", "channel", channel.ID, "days", channel.Days, "limit", channel.Limit)

	main := p.client.Fetch(ctx, channel.Days, channel.MinPoints, hn.TagStory)
	showHN := p.client.Fetch(ctx, channel.Days, specialMinPoints, hn.TagShowHN)
	askHN := p.client.Fetch(ctx, channel.Days, specialMinPoints, hn.TagAskHN)

	selected := p.selector.Select(main, channel.Limit)
	selected = p.selector.MergeSpecial(selected, showHN, askHN)
	if len(selected) == 0 {
		return digest.Digest{}, fmt.Errorf("no stories selected for channel %s", channel.ID)
	}
	slog.Info("Stories selected", "channel", channel.ID, "count", len(selected))

	contents := p.fetcher.FetchAll(ctx, selected)

	results := p.enricher.Enrich(ctx, selected, contents, channel)
	p.apply(selected, results)

	return p.assembler.Assemble(channel, selected), nil
}

// apply merges enrichment results into the story slice. Stories the
// enrichment missed fall back to the keyword classifier with regular rank.
// Thread-kind titles override whatever category was assigned.
func (p *Pipeline) apply(stories []hn.Story, results map[int]enrich.Result) {
	for i := range stories {
		story := &stories[i]
		if result, ok := results[story.ID]; ok {
			story.Category = result.Category
			story.IsTop = result.IsTop
			story.DisplayTitle = result.Title
			story.Summary = result.Summary
		} else {
			story.Category = p.classifier.Classify(*story)
			story.IsTop = false
		}

		lower := strings.ToLower(story.Title)
		switch {
		case strings.HasPrefix(lower, "show hn"):
			story.Category = config.CategoryShowHN
		case strings.HasPrefix(lower, "ask hn"):
			story.Category = config.CategoryAskHN
		}
	}
}
