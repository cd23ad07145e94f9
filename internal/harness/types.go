package harness

import (
	"encoding/json"
)

// Outcome is the answer to one scenario question.
type Outcome struct {
	Ask     string          `json:"ask"`
	Query   string          `json:"query"`   // after preprocessing
	Grammar string          `json:"grammar"` // as recorded in the query log; empty on parse errors
	Plain   string          `json:"plain"`
	Empty   bool            `json:"empty"`
	Params  json.RawMessage `json:"params"`
	SPARQL  string          `json:"sparql_query,omitempty"`
	Err     string          `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expectation and assertion held.
	Pass bool `json:"pass"`

	// Outcomes has one entry per question, in order.
	Outcomes []Outcome `json:"outcomes"`

	// Searches are the entity searches issued ("kind:name").
	Searches []string `json:"searches"`

	// Queries are the SPARQL queries issued.
	Queries []string `json:"queries"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Outcomes: []Outcome{},
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
