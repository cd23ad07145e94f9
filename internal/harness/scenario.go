package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/nlquery/internal/testutil"
	"github.com/roach88/nlquery/internal/wikidata"
)

// DefaultToday is the clock date used when a scenario names none.
var DefaultToday = testutil.Date(2026, time.October, 14)

// Scenario defines an end-to-end question scenario.
type Scenario struct {
	// Name uniquely identifies this scenario (and names its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Today fixes the clock ("2006-01-02"). Empty means DefaultToday.
	Today string `yaml:"today,omitempty"`

	// Grammar is an optional CUE grammar file; empty uses the built-in one.
	Grammar string `yaml:"grammar,omitempty"`

	// Entities are the search results the fake Wikidata knows.
	Entities []Entity `yaml:"entities,omitempty"`

	// SPARQL answers queries by substring; the first matching rule wins.
	SPARQL []SPARQLRule `yaml:"sparql,omitempty"`

	// FailSPARQL makes every SPARQL query fail with this HTTP status.
	FailSPARQL int `yaml:"fail_sparql,omitempty"`

	// Questions are asked in order against one engine.
	Questions []Question `yaml:"questions"`

	// Assertions validate the requests issued and the query log.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Entity is one search fixture.
type Entity struct {
	Kind        string `yaml:"kind"` // "item" or "property"
	Name        string `yaml:"name"`
	ID          string `yaml:"id"`
	Description string `yaml:"description,omitempty"`
}

// SPARQLRule answers queries containing a fragment.
type SPARQLRule struct {
	Contains string                `yaml:"contains"`
	Rows     []testutil.SPARQLRow `yaml:"rows"`
}

// Question is one question with its canned parse tree.
type Question struct {
	Ask    string  `yaml:"ask"`
	Tree   string  `yaml:"tree,omitempty"` // empty: the parser fails
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected answer. Unset fields are not checked.
type Expect struct {
	Grammar        string   `yaml:"grammar,omitempty"`
	Plain          *string  `yaml:"plain,omitempty"`
	Empty          *bool    `yaml:"empty,omitempty"`
	Params         any      `yaml:"params,omitempty"` // compared as JSON
	SPARQLContains []string `yaml:"sparql_contains,omitempty"`
	ParseError     bool     `yaml:"parse_error,omitempty"`
}

// Assertion validates the run as a whole.
type Assertion struct {
	// Type is one of searches, query_count, asked.
	Type string `yaml:"type"`

	// Values are the expected searches (searches).
	Values []string `yaml:"values,omitempty"`

	// Question is the question to count (asked).
	Question string `yaml:"question,omitempty"`

	// Count is the expected number (query_count, asked).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertSearches   = "searches"
	AssertQueryCount = "query_count"
	AssertAsked      = "asked"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// today returns the scenario's clock date.
func (s *Scenario) today() (time.Time, error) {
	if s.Today == "" {
		return DefaultToday, nil
	}
	return time.Parse(time.DateOnly, s.Today)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Questions) == 0 {
		return fmt.Errorf("questions list is required and must be non-empty")
	}
	if _, err := s.today(); err != nil {
		return fmt.Errorf("today: %w", err)
	}
	if s.Grammar != "" {
		if _, err := os.Stat(s.Grammar); err != nil {
			return fmt.Errorf("grammar file not found: %s", s.Grammar)
		}
	}

	for i, e := range s.Entities {
		if e.Kind != wikidata.KindItem && e.Kind != wikidata.KindProperty {
			return fmt.Errorf("entities[%d]: kind must be %q or %q, got %q", i, wikidata.KindItem, wikidata.KindProperty, e.Kind)
		}
		if e.Name == "" || e.ID == "" {
			return fmt.Errorf("entities[%d]: name and id are required", i)
		}
	}
	for i, rule := range s.SPARQL {
		if rule.Contains == "" {
			return fmt.Errorf("sparql[%d]: contains is required", i)
		}
	}
	for i, q := range s.Questions {
		if q.Ask == "" {
			return fmt.Errorf("questions[%d]: ask is required", i)
		}
		if q.Tree == "" && (q.Expect == nil || !q.Expect.ParseError) {
			return fmt.Errorf("questions[%d]: tree is required unless expect.parse_error is set", i)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertSearches:
		if a.Values == nil {
			return fmt.Errorf("assertions[%d]: values is required for searches (use [] for none)", index)
		}
	case AssertQueryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for query_count", index)
		}
	case AssertAsked:
		if a.Question == "" {
			return fmt.Errorf("assertions[%d]: question is required for asked", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
