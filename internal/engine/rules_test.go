package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nlquery/internal/grammar"
	"github.com/roach88/nlquery/internal/parsetree"
)

func TestMatchRules_FirstRuleWins(t *testing.T) {
	table := grammar.NewTable("np",
		grammar.MustRule("( NP ( NP:subject-o ) ( VP:prop-o ) )", nil),
		grammar.MustRule("( NP:subject-o )", nil),
	)

	caps, ok := MatchRules(parsetree.MustParse("(NP (NP (NNP Obama)) (VP (VBN born)))"), table)
	require.True(t, ok)
	assert.Equal(t, "obama", caps.Text("subject"))
	assert.Equal(t, "born", caps.Text("prop"))

	caps, ok = MatchRules(parsetree.MustParse("(NP (NNP Obama))"), table)
	require.True(t, ok)
	assert.Equal(t, "obama", caps.Text("subject"))
	assert.False(t, caps.Has("prop"))
}

func TestMatchRules_NoStructuralMatch(t *testing.T) {
	table := grammar.NewTable("np", grammar.MustRule("( NP:subject-o )", nil))

	caps, ok := MatchRules(parsetree.MustParse("(VP (VB run))"), table)
	assert.False(t, ok)
	assert.Nil(t, caps)

	_, ok = MatchRules(nil, table)
	assert.False(t, ok)
}

func TestMatchRules_NestedMergesCaptures(t *testing.T) {
	subject := grammar.NewTable("subject", grammar.MustRule("( NP:subject-o )", nil))
	sq := grammar.NewTable("sq",
		grammar.MustRule("( SQ ( VBZ:action-o ) ( NP:subj_t ) )", map[string]*grammar.RuleTable{"subj_t": subject}),
	)
	top := grammar.NewTable("top",
		grammar.MustRule("( SBARQ ( WHNP:qtype-o ) ( SQ:sq_t ) )", map[string]*grammar.RuleTable{"sq_t": sq}),
	)

	tree := parsetree.MustParse("(SBARQ (WHNP (WP Who)) (SQ (VBZ is) (NP (NNP Obama))) (. ?))")
	caps, ok := MatchRules(tree, top)
	require.True(t, ok)

	assert.Equal(t, "who", caps.Text("qtype"))
	assert.Equal(t, "is", caps.Text("action"))
	assert.Equal(t, "obama", caps.Text("subject"))
	assert.Equal(t, "SQ", caps.Tree("sq_t").Label, "subtree captures stay in the result")
}

func TestMatchRules_InnerOverridesOuter(t *testing.T) {
	inner := grammar.NewTable("inner", grammar.MustRule("( SQ ( VBZ:action-o ) )", nil))
	outer := grammar.NewTable("outer",
		grammar.MustRule("( SBARQ ( WHNP:action-o ) ( SQ:sq_t ) )", map[string]*grammar.RuleTable{"sq_t": inner}),
	)

	caps, ok := MatchRules(parsetree.MustParse("(SBARQ (WHNP (WP Who)) (SQ (VBZ is)))"), outer)
	require.True(t, ok)
	assert.Equal(t, "is", caps.Text("action"))
}

func TestMatchRules_NestedFailureDoesNotFallThrough(t *testing.T) {
	strict := grammar.NewTable("strict", grammar.MustRule("( SQ ( VBD ) )", nil))
	table := grammar.NewTable("top",
		grammar.MustRule("( SBARQ ( SQ:sq_t ) )", map[string]*grammar.RuleTable{"sq_t": strict}),
		grammar.MustRule("( SBARQ:all-o )", nil),
	)

	// The first rule matches structurally, its nested table does not; the
	// catch-all second rule is never consulted.
	_, ok := MatchRules(parsetree.MustParse("(SBARQ (SQ (VBZ is)))"), table)
	assert.False(t, ok)
}

func TestMatchRules_SelfReferenceChains(t *testing.T) {
	chain := grammar.NewTable("chain")
	chain.Rules = []grammar.Rule{
		grammar.MustRule("( PP ( IN ) ( NP ( NP:head-o ) ( PP:next_t ) ) )", map[string]*grammar.RuleTable{"next_t": chain}),
		grammar.MustRule("( PP ( IN ) ( NP:tail-o ) )", nil),
	}

	tree := parsetree.MustParse("(PP (IN of) (NP (NP (NNP Apple)) (PP (IN in) (NP (CD 1980)))))")
	caps, ok := MatchRules(tree, chain)
	require.True(t, ok)
	assert.Equal(t, "apple", caps.Text("head"))
	assert.Equal(t, "1980", caps.Text("tail"))
}

func TestMatchRules_DefaultGrammarSubject(t *testing.T) {
	g, err := grammar.LoadDefault()
	require.NoError(t, err)
	subject := g.Tables["subject"]

	testCases := []struct {
		name    string
		tree    string
		subject string
		prop    string
		prop2   string
	}{
		{"subject and verb", "(NP (NP (NNP Obama)) (VP (VBN born)))", "obama", "born", ""},
		{"prop of subject", "(NP (NP (DT the) (NN height)) (PP (IN of) (NP (NNP Obama))))", "obama", "height", ""},
		{"possessive", "(NP (NP (NNP Obama) (POS 's)) (NN height))", "obama", "height", ""},
		{"possessive compound", "(NP (NP (NNP Obama) (POS 's)) (NN birth) (NN day))", "obama", "birth", "day"},
		{"two-word possessive", "(NP (NP (NNP Barack) (NNP Obama) (POS 's)) (NN wife))", "barack obama", "wife", ""},
		{"bare subject", "(NP (NNP Yao) (NNP Ming))", "yao ming", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			caps, ok := MatchRules(parsetree.MustParse(tc.tree), subject)
			require.True(t, ok)
			assert.Equal(t, tc.subject, caps.Text("subject"))
			assert.Equal(t, tc.prop, caps.Text("prop"))
			assert.Equal(t, tc.prop2, caps.Text("prop2"))
		})
	}
}
