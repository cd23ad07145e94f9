package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/roach88/nlquery/internal/engine"
	"github.com/roach88/nlquery/internal/ir"
	"github.com/roach88/nlquery/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes the requests issued to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Searches []string // Entity searches issued during the run
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Searches) > 0 {
		fmt.Fprintf(&buf, "\nSearches:\n")
		for i, s := range e.Searches {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, s)
		}
	}

	return buf.String()
}

// assertSearches checks the exact sequence of entity searches.
func assertSearches(result *Result, assertion Assertion) error {
	if slices.Equal(result.Searches, assertion.Values) ||
		(len(result.Searches) == 0 && len(assertion.Values) == 0) {
		return nil
	}
	return &AssertionError{
		Type:     AssertSearches,
		Expected: fmt.Sprintf("%q", assertion.Values),
		Actual:   fmt.Sprintf("%q", result.Searches),
		Searches: result.Searches,
	}
}

// assertQueryCount checks the number of SPARQL queries issued.
func assertQueryCount(result *Result, assertion Assertion) error {
	if len(result.Queries) == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertQueryCount,
		Expected: fmt.Sprintf("%d SPARQL queries", assertion.Count),
		Actual:   fmt.Sprintf("%d SPARQL queries", len(result.Queries)),
		Searches: result.Searches,
	}
}

// assertAsked checks how often a question was recorded in the query log.
// The question is preprocessed the way the engine does before counting.
func assertAsked(ctx context.Context, st *store.Store, result *Result, assertion Assertion) error {
	if st == nil {
		return fmt.Errorf("asked assertion requires a query log")
	}
	query := engine.Preprocess(assertion.Question)
	n, err := st.CountByFingerprint(ctx, ir.Fingerprint(query))
	if err != nil {
		return fmt.Errorf("count %q: %w", query, err)
	}
	if n == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertAsked,
		Expected: fmt.Sprintf("%q recorded %d times", query, assertion.Count),
		Actual:   fmt.Sprintf("recorded %d times", n),
		Searches: result.Searches,
	}
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions runs all assertions and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	ctx := context.Background()
	var st *store.Store
	if actx != nil {
		st = actx.Store
		if actx.Ctx != nil {
			ctx = actx.Ctx
		}
	}

	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertSearches:
			err = assertSearches(result, a)
		case AssertQueryCount:
			err = assertQueryCount(result, a)
		case AssertAsked:
			err = assertAsked(ctx, st, result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return failures
}

// checkExpect compares one outcome with its question's expectations.
// Grammar is checked separately by checkGrammar.
func checkExpect(index int, q Question, got Outcome) []string {
	want := q.Expect
	if want == nil {
		return nil
	}

	prefix := fmt.Sprintf("questions[%d] %q", index, q.Ask)
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, prefix+": "+fmt.Sprintf(format, args...))
	}

	if want.ParseError != (got.Err != "") {
		if want.ParseError {
			fail("expected a parse error")
		} else {
			fail("unexpected error: %s", got.Err)
		}
	}
	if want.Plain != nil && *want.Plain != got.Plain {
		fail("plain: expected %q, got %q", *want.Plain, got.Plain)
	}
	if want.Empty != nil && *want.Empty != got.Empty {
		fail("empty: expected %t, got %t", *want.Empty, got.Empty)
	}
	if want.Params != nil {
		if ok, err := jsonEqual(want.Params, got.Params); err != nil {
			fail("params: %v", err)
		} else if !ok {
			fail("params: expected %s, got %s", mustJSON(want.Params), string(got.Params))
		}
	}
	for _, fragment := range want.SPARQLContains {
		if !strings.Contains(got.SPARQL, fragment) {
			fail("sparql: expected to contain %q, got %q", fragment, got.SPARQL)
		}
	}
	return failures
}

func checkGrammar(index int, q Question, got Outcome) string {
	if q.Expect == nil || q.Expect.Grammar == "" || q.Expect.Grammar == got.Grammar {
		return ""
	}
	return fmt.Sprintf("questions[%d] %q: grammar: expected %q, got %q", index, q.Ask, q.Expect.Grammar, got.Grammar)
}

// jsonEqual compares an expectation decoded from YAML with encoded JSON.
// Both sides go through encoding/json so numbers and maps compare alike.
func jsonEqual(want any, got json.RawMessage) (bool, error) {
	if got == nil {
		return false, fmt.Errorf("expected %s, got no params", mustJSON(want))
	}
	wantJSON, err := json.Marshal(want)
	if err != nil {
		return false, fmt.Errorf("encode expected params: %w", err)
	}

	var w, g any
	if err := json.Unmarshal(wantJSON, &w); err != nil {
		return false, err
	}
	if err := json.Unmarshal(got, &g); err != nil {
		return false, err
	}
	return reflect.DeepEqual(w, g), nil
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
