package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaultGrammarIsClean(t *testing.T) {
	g, err := LoadDefault()
	require.NoError(t, err)

	result := Validate(g)
	assert.True(t, result.OK(), "unexpected issues: %v", result.Issues)
}

func TestValidateReportsIssues(t *testing.T) {
	orphan := NewTable("orphan", MustRule("( NP )", nil))
	sq := NewTable("sq",
		MustRule("( SQ:prop_match_t )", nil),
		MustRule("( SQ ( VP:prop_match_t ) )", nil),
	)
	top := NewTable("top",
		MustRule("( SBARQ ( SQ:sq_t ) )", map[string]*RuleTable{"sq_t": sq}),
		MustRule("( SBARQ ( SQ:sq_t ) )", map[string]*RuleTable{"sq_t": sq}),
	)
	// Bypass NewRule to build bindings the compiler would reject.
	top.Rules = append(top.Rules,
		Rule{Pattern: MustCompile("( SBARQ:q-o ( WHNP ) )"), Nested: map[string]*RuleTable{"q": sq}},
		Rule{Pattern: MustCompile("( SBARQ ( WHADVP ) )"), Nested: map[string]*RuleTable{"absent": sq}},
	)

	g := &Grammar{
		Tables:      map[string]*RuleTable{"orphan": orphan, "sq": sq, "top": top},
		FindEntity:  top,
		SubjectProp: top,
		PropTuple:   sq,
	}

	result := Validate(g)
	require.False(t, result.OK())

	var codes []string
	for _, issue := range result.Issues {
		codes = append(codes, issue.Code)
	}
	assert.Equal(t, []string{
		WarnUnreachableTable, // orphan
		WarnShadowedRule,     // sq[1] behind catch-all sq[0]
		WarnShadowedRule,     // top[1] duplicates top[0]
		WarnNestedNotSubtree, // top[2]
		WarnNestedUndeclared, // top[3]
	}, codes)

	assert.Equal(t, "orphan", result.Issues[0].Table)
	assert.Equal(t, -1, result.Issues[0].Rule)
	assert.Equal(t, 1, result.Issues[1].Rule)
	assert.Equal(t, "[W202] sq[1]: shadowed by rule 0 ( SQ:prop_match_t )", result.Issues[1].String())
}

func TestShadows(t *testing.T) {
	testCases := []struct {
		name    string
		earlier string
		later   string
		want    bool
	}{
		{"identical", "( NP ( NN ) )", "( NP ( NN ) )", true},
		{"catch-all same label", "( NP:subject-o )", "( NP ( NP ) ( VP ) )", true},
		{"catch-all superset labels", "( NP/VP )", "( NP ( NN ) )", true},
		{"wildcard catch-all", "( . )", "( SQ ( VP ) )", true},
		{"catch-all narrower labels", "( NP )", "( NP/VP ( NN ) )", false},
		{"catch-all label vs wildcard", "( NP )", "( . ( NN ) )", false},
		{"with children", "( NP ( NN ) )", "( NP ( NN ) ( POS ) )", false},
		{"literal", "( WHNP=who )", "( WHNP ( WP ) )", false},
		{"anchored childless", "( NP $ )", "( NP ( NN ) )", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, shadows(MustCompile(tc.earlier), MustCompile(tc.later)))
		})
	}
}

func TestNewRuleRejectsBadBindings(t *testing.T) {
	sq := NewTable("sq", MustRule("( SQ )", nil))

	_, err := NewRule("( SBARQ ( SQ:sq-o ) )", map[string]*RuleTable{"sq": sq})
	assert.ErrorContains(t, err, "must be a subtree")

	_, err = NewRule("( SBARQ ( SQ:sq_t ) )", map[string]*RuleTable{"other": sq})
	assert.ErrorContains(t, err, "no such capture")

	_, err = NewRule("( SBARQ ( SQ:sq_t ) )", map[string]*RuleTable{"sq_t": nil})
	assert.ErrorContains(t, err, "nil table")

	_, err = NewRule("( SBARQ", nil)
	var synErr *SyntaxError
	assert.ErrorAs(t, err, &synErr)
}
