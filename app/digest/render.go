package digest

import (
	"fmt"
	"strings"
	"time"

	"hndigest/app/config"
	"hndigest/app/hn"
)

// Telegram's HTML parse mode only treats these three characters as markup.
var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

func categoryHeader(taxonomy config.Taxonomy, key, lang string) string {
	return fmt.Sprintf("<b># %s</b>", taxonomy.Name(key, lang))
}

func renderRoot(channel *config.Channel, top []hn.Story, issue int, now time.Time, tag string) string {
	lang := channel.Language
	start := now.AddDate(0, 0, -channel.Days)
	period := fmt.Sprintf("%d %s — %d %s %d",
		start.Day(), config.Month(int(start.Month()), lang),
		now.Day(), config.Month(int(now.Month()), lang), now.Year())

	lines := []string{
		fmt.Sprintf("<b>%s #%d</b> | <i>%s</i>", channel.Title, issue, period),
		"",
		fmt.Sprintf("<b># %s</b>", config.Label("top", lang)),
	}
	for _, story := range top {
		lines = append(lines, "")
		lines = append(lines, storyLines(story, lang)...)
	}
	lines = append(lines, "")
	if channel.Footer != "" {
		lines = append(lines, channel.Footer)
	}
	lines = append(lines, tag)
	return strings.Join(lines, "\n")
}

func renderSection(taxonomy config.Taxonomy, key string, stories []hn.Story, lang, tag string) string {
	lines := []string{categoryHeader(taxonomy, key, lang)}
	for _, story := range stories {
		lines = append(lines, "")
		lines = append(lines, storyLines(story, lang)...)
	}
	lines = append(lines, "", tag)
	return strings.Join(lines, "\n")
}

// storyLines renders one story block: bold linked title, optional summary,
// italic metadata. Thread kinds link to the discussion thread and carry no
// summary; everything else links the title to the external URL and the
// comment count to the thread.
func storyLines(story hn.Story, lang string) []string {
	title := story.DisplayTitle
	if title == "" {
		title = story.Title
	}
	title = escapeHTML(title)

	var titleLine string
	switch {
	case story.IsThreadKind():
		titleLine = fmt.Sprintf("<b><a href=\"%s\">%s</a></b>", story.ItemURL(), title)
	case story.URL != "":
		titleLine = fmt.Sprintf("<b><a href=\"%s\">%s</a></b>", story.URL, title)
	default:
		titleLine = fmt.Sprintf("<b>%s</b>", title)
	}

	lines := []string{titleLine}
	if !story.IsThreadKind() && story.Summary != "" {
		lines = append(lines, escapeHTML(story.Summary))
	}

	points := fmt.Sprintf("%d %s", story.Points, config.Label("points", lang))
	comments := fmt.Sprintf("%d %s", story.Comments, config.Label("comments", lang))
	if story.IsThreadKind() {
		lines = append(lines, fmt.Sprintf("<i>%s · %s</i>", points, comments))
	} else {
		lines = append(lines, fmt.Sprintf("<i>%s · <a href=\"%s\">%s</a></i>", points, story.ItemURL(), comments))
	}
	return lines
}
