package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerPlainMatchesRaw(t *testing.T) {
	answers := []*Answer{
		nil,
		Empty(),
		NewAnswer(Text("44th President of the United States"), ""),
		NewAnswer(List{Text("People's Republic of China"), Text("India")}, "SELECT ..."),
		NewAnswer(Int(19), "SELECT (COUNT(*) AS ?count) ..."),
	}

	for _, a := range answers {
		assert.Equal(t, a.Plain(), a.Raw().Plain)
	}
}

func TestAnswerWithParamsCopies(t *testing.T) {
	orig := NewAnswer(Text("x"), "q")
	withParams := orig.WithParams(SubjectParams{QType: "who", Subject: "obama"})

	assert.Nil(t, orig.Params, "original must not be mutated")
	assert.Equal(t, "x", withParams.Plain())
	assert.Equal(t, "q", withParams.SPARQL)

	var missing *Answer
	empty := missing.WithParams(EntityParams{QType: "how many", Inst: "country"})
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, "how many", empty.Params.QuestionType())
}

func TestAnswerFinalize(t *testing.T) {
	a := Empty()
	a.Finalize("Who is Obama?", "(SBARQ)")

	assert.Equal(t, "Who is Obama?", a.Query)
	assert.Equal(t, "(SBARQ)", a.Tree)
	assert.Equal(t, "", a.Plain())
}

func TestRawAnswerJSON(t *testing.T) {
	a := NewAnswer(List{Text("India")}, "SELECT ?valLabel WHERE {}").
		WithParams(EntityParams{
			QType: "which",
			Inst:  "country",
			Props: []PropTuple{T("population", "1000000000", OpGreater)},
		})
	a.Finalize("Which countries have a population over 1000000000?", "(ROOT)")

	data, err := json.Marshal(a.Raw())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"plain": "India",
		"query": "Which countries have a population over 1000000000?",
		"params": {"qtype": "which", "inst": "country", "props": [["population", "1000000000", ">"]]},
		"tree": "(ROOT)",
		"sparql_query": "SELECT ?valLabel WHERE {}",
		"data": ["India"]
	}`, string(data))
}

func TestSubjectParamsJSONNullProp(t *testing.T) {
	data, err := json.Marshal(SubjectParams{QType: "who", Subject: "obama"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"qtype": "who", "subject": "obama", "prop": null}`, string(data))
}

func TestPropTupleJSON(t *testing.T) {
	data, err := json.Marshal([]PropTuple{T("", "asia", OpIn), T("population", "100000", OpGreater)})
	require.NoError(t, err)
	assert.JSONEq(t, `[[null, "asia", "in"], ["population", "100000", ">"]]`, string(data))

	var decoded []PropTuple
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []PropTuple{T("", "asia", OpIn), T("population", "100000", OpGreater)}, decoded)

	var bad PropTuple
	assert.Error(t, json.Unmarshal([]byte(`["a", "b"]`), &bad))
}

func TestEntityParamsJSONEmptyProps(t *testing.T) {
	data, err := json.Marshal(EntityParams{QType: "how many", Inst: "country"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"qtype": "how many", "inst": "country", "props": []}`, string(data))
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("Who is Obama?"), Fingerprint("  who is   obama "))
	assert.NotEqual(t, Fingerprint("Who is Obama?"), Fingerprint("Who is Michelle Obama?"))
	assert.Len(t, Fingerprint("x"), 64)
	assert.Equal(t, "who is obama?", NormalizeQuestion("Who is Obama??"))
}
