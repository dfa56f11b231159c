// Package facts holds the hand-authored common-sense rules that can decide
// trivial claims before any evidence is retrieved.
package facts

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// ErrInvalidTable is returned when a rule table fails validation
var ErrInvalidTable = errors.New("invalid fact table")

// EntityRule asserts the correct value of one attribute of a named entity
type EntityRule struct {
	Name      string   `yaml:"name"`
	Triggers  []string `yaml:"triggers"`  // Phrases that identify the entity in a claim
	Attribute string   `yaml:"attribute"` // e.g. "nationality"
	Correct   string   `yaml:"correct"`
	Wrong     []string `yaml:"wrong"`    // Closed set of known-wrong values
	Keywords  []string `yaml:"keywords"` // Relevance keywords added when the entity is mentioned
}

// CategoryRule states that no member of Exclusions belongs to Category
type CategoryRule struct {
	Category   string   `yaml:"category"`
	Exclusions []string `yaml:"exclusions"`
}

// TautologyRule is a universally true subject/predicate relation
type TautologyRule struct {
	Subject   string `yaml:"subject"`
	Predicate string `yaml:"predicate"`
}

// Table is the full rule set, loadable from YAML
type Table struct {
	Entities    []EntityRule    `yaml:"entities"`
	Categories  []CategoryRule  `yaml:"categories"`
	Tautologies []TautologyRule `yaml:"tautologies"`
}

// Default returns the built-in rule table
func Default() *Table {
	t, err := Parse(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("built-in fact table: %v", err))
	}
	return t
}

// Load reads a rule table from a YAML file
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fact table: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates a YAML rule table
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse fact table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every rule has the fields it needs to fire
func (t *Table) Validate() error {
	for i, e := range t.Entities {
		if e.Name == "" || len(e.Triggers) == 0 || e.Correct == "" {
			return fmt.Errorf("%w: entity rule %d needs name, triggers and correct", ErrInvalidTable, i)
		}
		for _, w := range e.Wrong {
			if strings.EqualFold(w, e.Correct) {
				return fmt.Errorf("%w: entity %q lists %q as both correct and wrong", ErrInvalidTable, e.Name, w)
			}
		}
	}
	for i, c := range t.Categories {
		if c.Category == "" || len(c.Exclusions) == 0 {
			return fmt.Errorf("%w: category rule %d needs category and exclusions", ErrInvalidTable, i)
		}
	}
	for i, r := range t.Tautologies {
		if r.Subject == "" || r.Predicate == "" {
			return fmt.Errorf("%w: tautology rule %d needs subject and predicate", ErrInvalidTable, i)
		}
	}
	return nil
}

// Size returns the number of rules across all families
func (t *Table) Size() int {
	return len(t.Entities) + len(t.Categories) + len(t.Tautologies)
}
