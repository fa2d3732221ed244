package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of channel configurations
type Loader struct {
	channelsDir string
}

// NewLoader creates a new configuration loader
func NewLoader(channelsDir string) *Loader {
	return &Loader{channelsDir: channelsDir}
}

// LoadAll loads all YAML channel files from the channels directory, keyed by
// channel ID.
func (l *Loader) LoadAll() (map[string]*Channel, error) {
	channels := make(map[string]*Channel)

	if _, err := os.Stat(l.channelsDir); os.IsNotExist(err) {
		return channels, nil
	}

	files, err := filepath.Glob(filepath.Join(l.channelsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(l.channelsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		if isTaxonomyFile(file) {
			continue
		}
		channel, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(channel); err != nil {
			return nil, fmt.Errorf("invalid channel %s: %w", file, err)
		}

		if _, exists := channels[channel.ID]; exists {
			return nil, fmt.Errorf("duplicate channel id %q in %s", channel.ID, file)
		}

		channels[channel.ID] = channel
		slog.Debug("Loaded channel configuration", "file", file, "channel", channel.ID)
	}

	return channels, nil
}

// loadFile loads a single YAML channel file
func (l *Loader) loadFile(path string) (*Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var channel Channel
	if err := yaml.Unmarshal(data, &channel); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&channel)

	return &channel, nil
}

// setDefaults applies default values to a channel configuration
func (l *Loader) setDefaults(channel *Channel) {
	if channel.Days == 0 {
		channel.Days = 7
	}
	if channel.Limit == 0 {
		channel.Limit = 50
	}
	if channel.MinPoints == 0 {
		channel.MinPoints = 50
	}
	if channel.Language == "" {
		channel.Language = "en"
	}
}

// taxonomyFile is the on-disk shape of a taxonomy override.
type taxonomyFile struct {
	Default    string     `yaml:"default"`
	Categories []Category `yaml:"categories"`
}

func isTaxonomyFile(path string) bool {
	base := filepath.Base(path)
	return base == "taxonomy.yaml" || base == "taxonomy.yml"
}

// LoadTaxonomy loads the taxonomy override from the channels directory. A
// missing file means the built-in scheme.
func (l *Loader) LoadTaxonomy() (Taxonomy, error) {
	path := filepath.Join(l.channelsDir, "taxonomy.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		path = filepath.Join(l.channelsDir, "taxonomy.yml")
		data, err = os.ReadFile(path)
	}
	if os.IsNotExist(err) {
		return DefaultTaxonomy(), nil
	}
	if err != nil {
		return Taxonomy{}, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var tf taxonomyFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return Taxonomy{}, fmt.Errorf("failed to parse taxonomy file %s: %w", path, err)
	}

	taxonomy := Taxonomy{Default: tf.Default, Categories: tf.Categories}
	if taxonomy.Default == "" {
		taxonomy.Default = "other"
	}
	if len(taxonomy.Categories) == 0 {
		return Taxonomy{}, fmt.Errorf("taxonomy file %s has no categories", path)
	}
	if _, ok := taxonomy.Lookup(taxonomy.Default); !ok {
		return Taxonomy{}, fmt.Errorf("taxonomy default bucket %q is not a category", taxonomy.Default)
	}

	slog.Debug("Loaded taxonomy override", "file", path, "categories", len(taxonomy.Categories))
	return taxonomy, nil
}

// validate validates a channel configuration
func (l *Loader) validate(channel *Channel) error {
	if channel.ID == "" {
		return fmt.Errorf("channel id is required")
	}
	if channel.Title == "" {
		return fmt.Errorf("channel title is required")
	}
	if channel.FirstIssueDate == "" {
		return fmt.Errorf("first_issue_date is required")
	}
	if channel.Days < 0 {
		return fmt.Errorf("days must be non-negative")
	}
	if channel.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	if channel.MinPoints < 0 {
		return fmt.Errorf("min_points must be non-negative")
	}
	return nil
}
