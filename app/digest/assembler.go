package digest

import (
	"fmt"
	"time"

	"hndigest/app/config"
	"hndigest/app/hn"
)

const (
	maxTopStories     = 10
	maxSectionStories = 5
)

// Assembler turns an enriched story batch into a digest issue: one root
// message with the top stories plus one reply per non-empty category section.
type Assembler struct {
	taxonomy config.Taxonomy
	now      func() time.Time
}

func NewAssembler(taxonomy config.Taxonomy) *Assembler {
	return &Assembler{taxonomy: taxonomy, now: time.Now}
}

// Assemble builds the digest for a channel. The top section holds stories
// flagged by enrichment; with none flagged the leading stories stand in, so a
// non-empty input always yields a non-empty root. Non-top stories are grouped
// by category and emitted in taxonomy precedence order.
func (a *Assembler) Assemble(channel *config.Channel, stories []hn.Story) Digest {
	now := a.now().UTC()
	issue := a.issueNumber(channel, now)
	lang := channel.Language

	top := make([]hn.Story, 0, maxTopStories)
	for _, story := range stories {
		if story.IsTop {
			top = append(top, story)
		}
	}
	if len(top) == 0 {
		top = stories
	}
	if len(top) > maxTopStories {
		top = top[:maxTopStories]
	}

	topIDs := make(map[int]bool, len(top))
	for _, story := range top {
		topIDs[story.ID] = true
	}

	byCategory := make(map[string][]hn.Story)
	for _, story := range stories {
		if topIDs[story.ID] {
			continue
		}
		byCategory[story.Category] = append(byCategory[story.Category], story)
	}

	tag := fmt.Sprintf("#digest_%d", issue)

	messages := []Message{{Text: renderRoot(channel, top, issue, now, tag)}}
	for _, key := range a.taxonomy.SectionOrder() {
		section := byCategory[key]
		if len(section) == 0 {
			continue
		}
		if len(section) > maxSectionStories {
			section = section[:maxSectionStories]
		}
		messages = append(messages, Message{
			Category: key,
			Label:    a.taxonomy.Name(key, lang),
			Text:     renderSection(a.taxonomy, key, section, lang, tag),
		})
	}

	return Digest{Channel: channel.ID, Issue: issue, Messages: messages}
}

// issueNumber counts weeks elapsed since the channel's first issue date,
// starting at 1. An unparseable date yields issue 1.
func (a *Assembler) issueNumber(channel *config.Channel, now time.Time) int {
	first, err := time.Parse("2006-01-02", channel.FirstIssueDate)
	if err != nil {
		return 1
	}
	issue := int(now.Sub(first).Hours()/24)/7 + 1
	if issue < 1 {
		issue = 1
	}
	return issue
}
