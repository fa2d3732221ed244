package config

// Thread-kind categories are detected from the story source, never assigned
// by the enrichment model.
const (
	CategoryShowHN = "show_hn"
	CategoryAskHN  = "ask_hn"
)

// JobPhrases filter out recruiting posts before selection.
var JobPhrases = []string{"hiring", "who is hiring", "who wants to be hired", "freelancer", "job", "career"}

// DefaultTaxonomy returns the built-in 12-category scheme. Channel deployments
// may replace it via a taxonomy YAML file.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Default: "other",
		Categories: []Category{
			{
				Key:   "ai",
				Names: map[string]string{"en": "AI", "ru": "AI", "uz": "AI"},
				Guide: "AI/ML, LLMs, autonomous vehicles, neural networks, robotics",
				Keywords: []string{
					"ai", "gpt", "llm", "chatgpt", "openai", "anthropic", "gemini", "claude",
					"machine learning", "neural", "transformer", "diffusion", "deepmind",
					"copilot", "midjourney", "stable diffusion", "mistral", "llama",
					"waymo", "self-driving", "autonomous", "model",
				},
				Domains: []string{"openai.com", "anthropic.com", "deepmind.com", "huggingface.co"},
			},
			{
				Key:   "code",
				Names: map[string]string{"en": "Code", "ru": "Код", "uz": "Kod"},
				Guide: "Programming languages, compilers, Git, Linux, open source, APIs, Docker, CLI tools",
				Keywords: []string{
					"rust", "python", "javascript", "typescript", "golang", "compiler",
					"programming", "git", "linux", "kernel", "api", "open source", "docker",
					"kubernetes", "devops", "nginx", "vim", "emacs", "neovim", "terminal", "cli",
				},
				Domains: []string{"github.com", "gitlab.com", "dev.to", "sourceware.org"},
			},
			{
				Key:   "data",
				Names: map[string]string{"en": "Data", "ru": "Данные", "uz": "Ma'lumotlar"},
				Guide: "Databases, SQL, Postgres, Redis, data engineering, analytics, data science",
				Keywords: []string{
					"database", "sql", "postgres", "redis", "data", "analytics", "bigquery",
					"elasticsearch", "mongodb", "sqlite", "cassandra",
				},
				Domains: []string{"postgresql.org"},
			},
			{
				Key:   "science",
				Names: map[string]string{"en": "Science", "ru": "Наука", "uz": "Fan"},
				Guide: "Research, physics, biology, space, NASA, quantum, climate, arxiv",
				Keywords: []string{
					"research", "paper", "study", "physics", "biology", "chemistry", "math",
					"space", "nasa", "telescope", "quantum", "genome", "climate",
					"neuroscience", "arxiv", "peer review", "experiment",
				},
				Domains: []string{"arxiv.org", "nature.com", "science.org", "nasa.gov"},
			},
			{
				Key:   "security",
				Names: map[string]string{"en": "Security", "ru": "Безопасность", "uz": "Xavfsizlik"},
				Guide: "Vulnerabilities, breaches, malware, privacy, encryption, CVEs",
				Keywords: []string{
					"security", "vulnerability", "breach", "malware", "ransomware", "exploit",
					"zero-day", "privacy", "encryption", "backdoor", "hijack", "cve",
					"phishing", "infosec",
				},
				Domains: []string{"krebsonsecurity.com", "schneier.com"},
			},
			{
				Key:   "design",
				Names: map[string]string{"en": "Design", "ru": "Дизайн", "uz": "Dizayn"},
				Guide: "UI/UX, typography, CSS, SVG, accessibility, Figma",
				Keywords: []string{
					"typography", "typeface", "font", "ui design", "ux design", "css",
					"animation", "svg", "color palette", "figma", "accessibility",
				},
				Domains: []string{"figma.com", "dribbble.com"},
			},
			{
				Key:   "business",
				Names: map[string]string{"en": "Business", "ru": "Бизнес", "uz": "Biznes"},
				Guide: "Startups, funding, acquisitions, regulations, legal, antitrust, policy",
				Keywords: []string{
					"startup", "founder", "yc", "ycombinator", "funding", "series a",
					"acquisition", "ipo", "valuation", "layoff", "regulation", "law", "ban",
					"government", "congress", "court", "lawsuit", "antitrust", "policy",
					"legal", "fcc", "ftc", "firm", "cloud", "eu-native", "digital autonomy",
					"big tech",
				},
				Domains: []string{"techcrunch.com", "ycombinator.com", "theregister.com"},
			},
			{
				Key:   "work",
				Names: map[string]string{"en": "Work", "ru": "Работа", "uz": "Ish"},
				Guide: "Career, remote work, management, hiring, interviews, workplace culture",
				Keywords: []string{
					"remote work", "career", "hiring culture", "management", "interview",
					"workplace", "burnout", "salary", "freelance", "work-life",
				},
			},
			{
				Key:   "learn",
				Names: map[string]string{"en": "Learn", "ru": "Обучение", "uz": "O'rganish"},
				Guide: "Tutorials, guides, educational content, talks, \"how I built\", courses",
				Keywords: []string{
					"tutorial", "guide", "how to", "learn", "course", "introduction to",
					"beginner", "walkthrough",
				},
				Domains: []string{"freecodecamp.org", "coursera.org"},
			},
			{
				Key:      CategoryShowHN,
				Names:    map[string]string{"en": "Show HN", "ru": "Show HN", "uz": "Show HN"},
				Keywords: []string{"show hn"},
			},
			{
				Key:      CategoryAskHN,
				Names:    map[string]string{"en": "Ask HN", "ru": "Ask HN", "uz": "Ask HN"},
				Keywords: []string{"ask hn"},
			},
			{
				Key:   "other",
				Names: map[string]string{"en": "Other", "ru": "Другое", "uz": "Boshqalar"},
				Guide: "Everything else",
			},
		},
	}
}

// SectionOrder returns category keys in digest section precedence order.
func (t Taxonomy) SectionOrder() []string {
	keys := make([]string, 0, len(t.Categories))
	for _, c := range t.Categories {
		keys = append(keys, c.Key)
	}
	return keys
}

// Lookup returns the category for a key, falling back to the default bucket.
func (t Taxonomy) Lookup(key string) (Category, bool) {
	for _, c := range t.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// Valid reports whether key names a category the enrichment model may assign.
// Thread-kind categories are excluded: those are detected from titles, and a
// model line claiming them is coerced to the default bucket.
func (t Taxonomy) Valid(key string) bool {
	if key == CategoryShowHN || key == CategoryAskHN {
		return false
	}
	_, ok := t.Lookup(key)
	return ok
}

// Name returns the localized display name of a category, falling back to the
// key itself for unknown categories or languages.
func (t Taxonomy) Name(key, language string) string {
	c, ok := t.Lookup(key)
	if !ok {
		return key
	}
	lang := NormalizeLanguage(language)
	if name, ok := c.Names[lang]; ok {
		return name
	}
	if name, ok := c.Names["en"]; ok {
		return name
	}
	return key
}
