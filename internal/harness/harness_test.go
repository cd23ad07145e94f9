package harness

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const obamaTree = "(ROOT (SBARQ (WHNP (WP Who)) (SQ (VBZ is) (NP (NNP Obama))) (. ?)))"

const countTree = "(ROOT (SBARQ (WHNP (WHADJP (WRB How) (JJ many)) (NNS countries)) (SQ (VBP are) (NP (EX there))) (. ?)))"

func ptr[T any](v T) *T { return &v }

func TestRun_Description(t *testing.T) {
	scenario := &Scenario{
		Name:        "description",
		Description: "Who is X asks for the description",
		Entities: []Entity{
			{Kind: "item", Name: "obama", ID: "Q76", Description: "44th president of the United States"},
		},
		Questions: []Question{
			{
				Ask:  "Who is Obama",
				Tree: obamaTree,
				Expect: &Expect{
					Grammar: "subject_prop",
					Plain:   ptr("44th president of the United States"),
					Empty:   ptr(false),
				},
			},
		},
		Assertions: []Assertion{
			{Type: AssertSearches, Values: []string{"item:obama"}},
			{Type: AssertQueryCount, Count: 0},
			{Type: AssertAsked, Question: "Who is Obama?", Count: 1},
		},
	}

	result, err := Run(t, scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)

	require.Len(t, result.Outcomes, 1)
	got := result.Outcomes[0]
	assert.Equal(t, "Who is Obama?", got.Query)
	assert.Equal(t, "subject_prop", got.Grammar)
	assert.JSONEq(t, `{"qtype":"who","subject":"obama","prop":null}`, string(got.Params))
	assert.Empty(t, got.SPARQL)
	assert.Empty(t, result.Queries)
}

func TestRun_FailedExpectations(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "Every expectation is wrong",
		Entities: []Entity{
			{Kind: "item", Name: "obama", ID: "Q76", Description: "44th president of the United States"},
		},
		Questions: []Question{
			{
				Ask:  "Who is Obama?",
				Tree: obamaTree,
				Expect: &Expect{
					Grammar:        "find_entity",
					Plain:          ptr("someone"),
					Empty:          ptr(true),
					Params:         map[string]any{"qtype": "who", "subject": "obama", "prop": "wife"},
					SPARQLContains: []string{"wd:Q76"},
					ParseError:     true,
				},
			},
		},
		Assertions: []Assertion{
			{Type: AssertSearches, Values: []string{}},
			{Type: AssertQueryCount, Count: 3},
			{Type: AssertAsked, Question: "Who is Obama?", Count: 5},
		},
	}

	result, err := Run(t, scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 9)

	assert.Contains(t, result.Errors[0], "expected a parse error")
	assert.Contains(t, result.Errors[1], `plain: expected "someone"`)
	assert.Contains(t, result.Errors[2], "empty: expected true, got false")
	assert.Contains(t, result.Errors[3], "params: expected")
	assert.Contains(t, result.Errors[4], `sparql: expected to contain "wd:Q76"`)
	assert.Contains(t, result.Errors[5], `grammar: expected "find_entity", got "subject_prop"`)
	assert.Contains(t, result.Errors[6], "Assertion failed: searches")
	assert.Contains(t, result.Errors[7], "Assertion failed: query_count")
	assert.Contains(t, result.Errors[8], "Assertion failed: asked")
}

func TestRun_ParseFailureIsNotRecorded(t *testing.T) {
	scenario := &Scenario{
		Name:        "parse_failure",
		Description: "Questions without a tree fail to parse",
		Entities:    []Entity{{Kind: "item", Name: "country", ID: "Q6256"}},
		Questions: []Question{
			{Ask: "Gibberish", Expect: &Expect{ParseError: true, Empty: ptr(true)}},
			{Ask: "How many countries are there?", Tree: countTree, Expect: &Expect{Grammar: "find_entity"}},
		},
		Assertions: []Assertion{
			{Type: AssertAsked, Question: "Gibberish", Count: 0},
			{Type: AssertAsked, Question: "How many countries are there?", Count: 1},
		},
	}

	result, err := Run(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, "Gibberish?", result.Outcomes[0].Query)
	assert.NotEmpty(t, result.Outcomes[0].Err)
	assert.Empty(t, result.Outcomes[0].Grammar)
	assert.Nil(t, result.Outcomes[0].Params)
	assert.Equal(t, "find_entity", result.Outcomes[1].Grammar)
}

func TestRun_SPARQLFailureDegrades(t *testing.T) {
	scenario := &Scenario{
		Name:        "sparql_down",
		Description: "A failing query service yields an empty answer",
		Entities:    []Entity{{Kind: "item", Name: "country", ID: "Q6256"}},
		FailSPARQL:  http.StatusServiceUnavailable,
		Questions: []Question{
			{
				Ask:  "How many countries are there?",
				Tree: countTree,
				Expect: &Expect{
					Grammar: "find_entity",
					Empty:   ptr(true),
					Params:  map[string]any{"qtype": "how many", "inst": "country", "props": []any{}},
				},
			},
		},
	}

	result, err := Run(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.NotEmpty(t, result.Queries)
	assert.Empty(t, result.Outcomes[0].SPARQL)
}

func TestRun_CustomGrammar(t *testing.T) {
	// One rule that no question in this scenario matches.
	src := `
entry: { find_entity: "t", subject_prop: "t", prop_tuple: "t" }
tables: t: [{ pattern: "( SINV ( NP:subject-o ) )" }]
`
	path := filepath.Join(t.TempDir(), "sinv.cue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	scenario := &Scenario{
		Name:        "custom_grammar",
		Description: "Scenario grammar replaces the built-in one",
		Grammar:     path,
		Questions: []Question{
			{Ask: "Who is Obama?", Tree: obamaTree, Expect: &Expect{Grammar: "none", Empty: ptr(true)}},
		},
		Assertions: []Assertion{{Type: AssertSearches, Values: []string{}}},
	}

	result, err := Run(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_InvalidToday(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_today",
		Description: "Unparseable date",
		Today:       "14/10/2026",
		Questions:   []Question{{Ask: "Who is Obama?", Tree: obamaTree}},
	}

	_, err := Run(t, scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid today")
}

func TestRun_Testdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}
