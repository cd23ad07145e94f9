package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nlquery/internal/grammar"
	"github.com/roach88/nlquery/internal/parsetree"
)

const obamasWife = `(NP
  (NP (NNP Barack) (NNP Obama) (POS 's))
  (NN wife))`

func TestMatch_LabelAlternatives(t *testing.T) {
	node := parsetree.MustParse("(NNS countries)")

	_, ok := Match(node, grammar.MustCompile("( NN/NNS )"))
	assert.True(t, ok)

	_, ok = Match(node, grammar.MustCompile("( NN/NNP )"))
	assert.False(t, ok)

	_, ok = Match(node, grammar.MustCompile("( nns )"))
	assert.False(t, ok, "labels are case-sensitive")

	_, ok = Match(node, grammar.MustCompile("( . )"))
	assert.True(t, ok, "wildcard matches any label")
}

func TestMatch_LiteralIsCaseInsensitive(t *testing.T) {
	node := parsetree.MustParse("(WHNP (WP Who))")

	_, ok := Match(node, grammar.MustCompile("( WHNP=who )"))
	assert.True(t, ok)

	_, ok = Match(node, grammar.MustCompile("( WHNP=WHO )"))
	assert.True(t, ok)

	_, ok = Match(node, grammar.MustCompile("( WHNP=what|which )"))
	assert.False(t, ok)
}

func TestMatch_ChildCounts(t *testing.T) {
	node := parsetree.MustParse("(NP (NN a) (NN b) (NN c))")

	testCases := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"prefix ignores trailing children", "( NP ( NN ) ( NN ) )", true},
		{"exact count", "( NP ( NN ) ( NN ) ( NN ) )", true},
		{"more pattern children than node children", "( NP ( NN ) ( NN ) ( NN ) ( NN ) )", false},
		{"anchored exact", "( NP ( NN ) ( NN ) ( NN ) $ )", true},
		{"anchored prefix", "( NP ( NN ) ( NN ) $ )", false},
		{"positional mismatch", "( NP ( NN ) ( VB ) )", false},
		{"childless pattern matches phrase", "( NP )", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := Match(node, grammar.MustCompile(tc.pattern))
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestMatch_CaptureKinds(t *testing.T) {
	node := parsetree.MustParse(obamasWife)

	testCases := []struct {
		name    string
		pattern string
		kind    grammar.Kind
		want    string
	}{
		{"object lower", "( NP:x-o )", grammar.KindText, "barack obama wife"},
		{"object cased", "( NP:x-O )", grammar.KindSingular, "Barack Obama wife"},
		{"raw lower", "( NP:x-r )", grammar.KindRaw, "barack obama 's wife"},
		{"raw cased", "( NP:x-R )", grammar.KindRawCased, "Barack Obama 's wife"},
		{"subtree", "( NP:x )", grammar.KindSubtree, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			caps, ok := Match(node, grammar.MustCompile(tc.pattern))
			require.True(t, ok)
			require.True(t, caps.Has("x"))
			assert.Equal(t, tc.kind, caps["x"].Kind)
			assert.Equal(t, tc.want, caps.Text("x"))
			assert.Same(t, node, caps.Tree("x"))
		})
	}
}

func TestMatch_ObjectTextDropsDeterminers(t *testing.T) {
	node := parsetree.MustParse("(NP (DT the) (NN population))")
	caps, ok := Match(node, grammar.MustCompile("( NP:prop-o )"))
	require.True(t, ok)
	assert.Equal(t, "population", caps.Text("prop"))
}

func TestMatch_NestedCaptures(t *testing.T) {
	node := parsetree.MustParse(obamasWife)
	pattern := grammar.MustCompile("( NP ( NP:subject-o ( NNP ) ( NNP ) ( POS ) ) ( NN/NNS:prop-o ) $ )")

	caps, ok := Match(node, pattern)
	require.True(t, ok)
	assert.Equal(t, "barack obama", caps.Text("subject"))
	assert.Equal(t, "wife", caps.Text("prop"))
	assert.Len(t, caps, 2)
}

func TestMatch_FailedAttemptReturnsNoCaptures(t *testing.T) {
	node := parsetree.MustParse(obamasWife)
	// The first child matches and binds "subject" before the second fails.
	caps, ok := Match(node, grammar.MustCompile("( NP ( NP:subject-o ) ( VB:prop-o ) )"))
	assert.False(t, ok)
	assert.Nil(t, caps)
}

func TestMatch_Absent(t *testing.T) {
	var caps Captures
	assert.False(t, caps.Has("x"))
	assert.Equal(t, "", caps.Text("x"))
	assert.Nil(t, caps.Tree("x"))

	_, ok := Match(nil, grammar.MustCompile("( . )"))
	assert.False(t, ok)
}

func TestMatch_Deterministic(t *testing.T) {
	node := parsetree.MustParse(obamasWife)
	pattern := grammar.MustCompile("( NP ( NP:subject-o ) ( NN:prop-o ) )")

	first, ok := Match(node, pattern)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := Match(node, pattern)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}
