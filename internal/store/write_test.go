package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nlquery/internal/ir"
)

func TestRecord_EntityAnswer(t *testing.T) {
	s := createTestStore(t)

	ans := entityAnswer("Which countries have a population over 1000000000?",
		ir.List{ir.Text("China"), ir.Text("India")},
		ir.T("population", "1000000000", ir.OpGreater))
	require.NoError(t, s.Record(t.Context(), "find_entity", ans))

	entries, err := s.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, int64(1), e.Seq)
	assert.Equal(t, "q-0001", e.ID)
	assert.Equal(t, ir.Fingerprint(ans.Query), e.Fingerprint)
	assert.Equal(t, ans.Query, e.Sentence)
	assert.Equal(t, "find_entity", e.Grammar)
	assert.Equal(t, "which", e.QType)
	assert.JSONEq(t, `{"qtype": "which", "inst": "country", "props": [["population", "1000000000", ">"]]}`, string(e.Params))
	assert.Equal(t, "SELECT ?valLabel WHERE {}", e.SPARQL)
	assert.Equal(t, "China, India", e.Plain)
	assert.False(t, e.Empty)
}

func TestRecord_SubjectAnswer(t *testing.T) {
	s := createTestStore(t)

	ans := ir.NewAnswer(ir.Text("44th president of the United States"), "").
		WithParams(ir.SubjectParams{QType: "who", Subject: "obama"})
	ans.Finalize("Who is Obama?", "(ROOT)")
	require.NoError(t, s.Record(t.Context(), "subject_prop", ans))

	entries, err := s.Recent(t.Context(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "who", entries[0].QType)
	assert.JSONEq(t, `{"qtype": "who", "subject": "obama", "prop": null}`, string(entries[0].Params))
	assert.Empty(t, entries[0].SPARQL)
}

func TestRecord_UnmatchedQuestion(t *testing.T) {
	s := createTestStore(t)

	ans := ir.Empty()
	ans.Finalize("Colorless green ideas sleep furiously?", "(ROOT)")
	require.NoError(t, s.Record(t.Context(), "none", ans))

	entries, err := s.Recent(t.Context(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Params)
	assert.Empty(t, entries[0].QType)
	assert.Empty(t, entries[0].Plain)
	assert.True(t, entries[0].Empty)
}

func TestRecord_NilAnswer(t *testing.T) {
	s := createTestStore(t)
	assert.Error(t, s.Record(t.Context(), "none", nil))
}

func TestRecord_CanceledContext(t *testing.T) {
	s := createTestStore(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := s.Record(ctx, "find_entity", entityAnswer("Which countries are in Asia?", nil))
	assert.Error(t, err)
}
