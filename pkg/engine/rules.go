package engine

import (
	"embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/fields"
)

//go:embed rules/default.yaml rules/schema.json
var rulesFS embed.FS

// ScoreVar is the variable grade rules use to read the aggregate score
const ScoreVar = "score"

// Document is the on-disk form of a rule set
type Document struct {
	Version       int           `yaml:"version"`
	Name          string        `yaml:"name"`
	FallbackGrade int           `yaml:"fallback_grade"`
	Fields        []fields.Spec `yaml:"fields"`
	Rules         []RuleSpec    `yaml:"rules"`
	Bands         []Band        `yaml:"bands"`
}

// RuleSpec is a single rule as written in a rule set.
// Exactly one of Points or Grade is set.
type RuleSpec struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []string `yaml:"fields" json:"fields"`
	When        string   `yaml:"when" json:"when"`
	Points      *float64 `yaml:"points,omitempty" json:"points,omitempty"`
	Per         string   `yaml:"per,omitempty" json:"per,omitempty"`
	Grade       int      `yaml:"grade,omitempty" json:"grade,omitempty"`
	Message     string   `yaml:"message,omitempty" json:"message,omitempty"`
}

// Band maps every score >= Min to Grade
type Band struct {
	Grade int     `yaml:"grade" json:"grade"`
	Min   float64 `yaml:"min" json:"min"`
}

// Load reads and compiles the rule set at path
func Load(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule set: %w", err)
	}
	eng, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rule set %s: %w", path, err)
	}
	return eng, nil
}

// Parse validates a YAML rule set against the embedded schema and compiles it
func Parse(data []byte) (*Engine, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rule set: %w", err)
	}
	return New(doc)
}

var defaultEngine = sync.OnceValues(func() (*Engine, error) {
	data, err := rulesFS.ReadFile("rules/default.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(data)
})

// Default returns the built-in rule set. It is compiled on first use and shared
// read-only afterwards.
func Default() (*Engine, error) {
	return defaultEngine()
}

// DefaultYAML returns the source of the built-in rule set
func DefaultYAML() []byte {
	data, _ := rulesFS.ReadFile("rules/default.yaml")
	return data
}
