package config

// Channel represents a single digest channel configuration
type Channel struct {
	ID             string `yaml:"id"`
	Telegram       string `yaml:"telegram"`
	Title          string `yaml:"title"`
	Language       string `yaml:"language"`
	Prompt         string `yaml:"prompt"` // translation instruction, empty = keep original titles
	Footer         string `yaml:"footer"`
	FirstIssueDate string `yaml:"first_issue_date"` // ISO date, drives issue numbering

	Days      int `yaml:"days"`
	Limit     int `yaml:"limit"`
	MinPoints int `yaml:"min_points"`
}

// Category is one entry of the digest taxonomy. Keywords and domains drive
// the offline classifier; Names carries localized section headers.
type Category struct {
	Key      string            `yaml:"key"`
	Names    map[string]string `yaml:"names"`
	Keywords []string          `yaml:"keywords"`
	Domains  []string          `yaml:"domains"`
	Guide    string            `yaml:"guide"` // one-line description used in the enrichment prompt
}

// Taxonomy is the ordered category set used for classification, prompt
// construction, and section ordering. Built once at startup and passed
// explicitly to consumers.
type Taxonomy struct {
	Categories []Category // precedence order for digest sections
	Default    string     // bucket for stories nothing else matches
}
