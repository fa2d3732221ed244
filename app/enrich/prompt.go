package enrich

import (
	"fmt"
	"strings"

	"hndigest/app/config"
	"hndigest/app/hn"
)

// Article text embedded in the prompt is bounded per story.
const maxArticleChars = 12000

const promptTemplate = `You are a Hacker News editor curating a weekly digest.

For each story below, do ALL of the following:
1. Categorize into ONE category: %s
   (Do NOT assign show_hn or ask_hn — those are detected separately)
2. Mark the 10 most interesting stories as "top" rank (others are "regular"):
   - Genuinely novel, important, or thought-provoking
   - NOT just highest points — a brilliant technical post beats routine drama
   - Prefer diversity: don't put 10 AI stories in top
3. %s
4. Write a one-sentence summary (max 20 words) in %s

Category guide:
%s

Stories:
%s

Return EXACTLY one line per story in this format:
1. category=ai, rank=top, title=Translated title here, summary=One sentence summary here
2. category=code, rank=regular, title=Another title, summary=Another summary

IMPORTANT: Return one line for EVERY story. Do not skip any.`

// BuildPrompt constructs the single batched prompt covering every story in
// the run. Ranking quality requires joint context, so partial batches are
// never sent.
func BuildPrompt(stories []hn.Story, contents map[int]string, channel *config.Channel, taxonomy config.Taxonomy) string {
	var assignable []string
	var guide []string
	for _, cat := range taxonomy.Categories {
		if !taxonomy.Valid(cat.Key) {
			continue
		}
		assignable = append(assignable, cat.Key)
		if cat.Guide != "" {
			guide = append(guide, fmt.Sprintf("- %s: %s", cat.Key, cat.Guide))
		}
	}

	translation := "Keep the original title as-is (do not translate)"
	if channel.Prompt != "" {
		translation = fmt.Sprintf("Translate the title to %s (%s)", channel.Language, channel.Prompt)
	}

	blocks := make([]string, 0, len(stories))
	for i, story := range stories {
		lines := []string{fmt.Sprintf("%d. Title: %s (%d pts, %d comments)", i+1, story.Title, story.Points, story.Comments)}
		if content := contents[story.ID]; content != "" {
			if len(content) > maxArticleChars {
				content = content[:maxArticleChars]
			}
			lines = append(lines, "Article: "+content)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return fmt.Sprintf(promptTemplate,
		strings.Join(assignable, ", "),
		translation,
		channel.Language,
		strings.Join(guide, "\n"),
		strings.Join(blocks, "\n---\n"),
	)
}
