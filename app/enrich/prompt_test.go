package enrich

import (
	"strings"
	"testing"

	"hndigest/app/config"
	"hndigest/app/hn"
)

func TestBuildPrompt_TranslationInstruction(t *testing.T) {
	taxonomy := config.DefaultTaxonomy()
	stories := []hn.Story{{ID: 1, Title: "A title", Points: 10, Comments: 2}}

	prompt := BuildPrompt(stories, nil, &config.Channel{Language: "en"}, taxonomy)
	if !strings.Contains(prompt, "Keep the original title as-is") {
		t.Error("English channel without prompt should keep titles")
	}

	prompt = BuildPrompt(stories, nil, &config.Channel{Language: "ru", Prompt: "keep terms in English"}, taxonomy)
	if !strings.Contains(prompt, "Translate the title to ru") {
		t.Error("Channel with a prompt should ask for translation")
	}
	if !strings.Contains(prompt, "keep terms in English") {
		t.Error("Channel prompt should be embedded in the instruction")
	}
}

func TestBuildPrompt_ExcludesThreadKinds(t *testing.T) {
	prompt := BuildPrompt([]hn.Story{{ID: 1, Title: "T"}}, nil, &config.Channel{Language: "en"}, config.DefaultTaxonomy())

	// The assignable category list must not offer thread kinds
	if !strings.Contains(prompt, "ai, code, data") {
		t.Error("Expected assignable category list in prompt")
	}
	if strings.Contains(prompt, "category: ai, code, data, science, security, design, business, work, learn, show_hn") {
		t.Error("Thread kinds must not be in the assignable list")
	}
}

func TestBuildPrompt_TruncatesArticles(t *testing.T) {
	long := strings.Repeat("x", maxArticleChars+500)
	stories := []hn.Story{{ID: 1, Title: "T", Points: 1}}
	prompt := BuildPrompt(stories, map[int]string{1: long}, &config.Channel{Language: "en"}, config.DefaultTaxonomy())

	if strings.Contains(prompt, strings.Repeat("x", maxArticleChars+1)) {
		t.Error("Article content should be capped")
	}
	if !strings.Contains(prompt, "Article: "+strings.Repeat("x", 100)) {
		t.Error("Truncated article content should still be present")
	}
}

func TestBuildPrompt_StorySeparator(t *testing.T) {
	stories := []hn.Story{
		{ID: 1, Title: "First", Points: 1},
		{ID: 2, Title: "Second", Points: 2},
	}
	prompt := BuildPrompt(stories, nil, &config.Channel{Language: "en"}, config.DefaultTaxonomy())

	if !strings.Contains(prompt, "1. Title: First (1 pts, 0 comments)") {
		t.Errorf("Unexpected story block format:\n%s", prompt)
	}
	if !strings.Contains(prompt, "\n---\n") {
		t.Error("Story blocks should be separated by ---")
	}
}
