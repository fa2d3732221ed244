package enrich

import (
	"strconv"
	"strings"
	"unicode"

	"hndigest/app/config"
)

// Parser decodes the line-oriented enrichment response format:
//
//	line   := index "." fields
//	fields := field ("," field)*
//	field  := key "=" value
//
// One line per story, e.g.
//
//	1. category=ai, rank=top, title=Translated title, summary=One sentence
//
// Malformed input never aborts a batch: lines that do not start with a digit
// are skipped, as are lines whose index falls outside [1, n]. An unrecognized
// category is coerced to the default bucket while the rest of the line stays
// usable. Commas inside title/summary values are preserved: a segment without
// "=" continues the previous field's value.
type Parser struct {
	taxonomy config.Taxonomy
}

func NewParser(taxonomy config.Taxonomy) *Parser {
	return &Parser{taxonomy: taxonomy}
}

// ParseResponse parses a full response for a batch of n stories. The returned
// map is keyed by zero-based story index.
func (p *Parser) ParseResponse(text string, n int) map[int]Result {
	results := make(map[int]Result)
	for _, line := range strings.Split(text, "\n") {
		idx, result, ok := p.ParseLine(line, n)
		if !ok {
			continue
		}
		results[idx] = result
	}
	return results
}

// ParseLine parses a single response line. The returned index is zero-based;
// ok is false for lines that contribute nothing.
func (p *Parser) ParseLine(line string, n int) (int, Result, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !unicode.IsDigit(rune(line[0])) {
		return 0, Result{}, false
	}

	prefix, rest, found := strings.Cut(line, ".")
	if !found {
		return 0, Result{}, false
	}

	num, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil {
		return 0, Result{}, false
	}
	if num < 1 || num > n {
		return 0, Result{}, false
	}

	result, ok := p.parseFields(strings.TrimSpace(rest))
	if !ok {
		return 0, Result{}, false
	}

	return num - 1, result, true
}

// ParseCached parses an enrichment cache value. Unlike response lines, a
// cached value with an invalid category is discarded entirely: coercion
// happened before the entry was written, so an invalid entry is corrupt.
func (p *Parser) ParseCached(value string) (Result, bool) {
	fields := splitFields(value)
	category := strings.ToLower(fields["category"])
	if !p.taxonomy.Valid(category) {
		return Result{}, false
	}
	return Result{
		Category: category,
		IsTop:    strings.ToLower(fields["rank"]) == "top",
		Title:    trimQuotes(fields["title"]),
		Summary:  trimQuotes(fields["summary"]),
	}, true
}

func (p *Parser) parseFields(rest string) (Result, bool) {
	fields := splitFields(rest)

	category := strings.ToLower(fields["category"])
	if !p.taxonomy.Valid(category) {
		category = p.taxonomy.Default
	}

	return Result{
		Category: category,
		IsTop:    strings.ToLower(fields["rank"]) == "top",
		Title:    trimQuotes(fields["title"]),
		Summary:  trimQuotes(fields["summary"]),
	}, true
}

// splitFields splits "k=v, k=v" into a map. Keys are matched
// case-insensitively; values keep their original case so translated text is
// never corrupted. A comma segment without "=" belongs to the preceding
// field's value.
func splitFields(text string) map[string]string {
	fields := make(map[string]string)
	lastKey := ""
	for _, segment := range strings.Split(text, ",") {
		key, value, found := strings.Cut(segment, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if found && isFieldKey(key) {
			fields[key] = strings.TrimSpace(value)
			lastKey = key
			continue
		}
		if lastKey != "" {
			fields[lastKey] += "," + segment
		}
	}
	for key, value := range fields {
		fields[key] = strings.TrimSpace(value)
	}
	return fields
}

func isFieldKey(key string) bool {
	switch key {
	case "category", "rank", "title", "summary":
		return true
	}
	return false
}

func trimQuotes(value string) string {
	return strings.Trim(value, `"'`)
}
