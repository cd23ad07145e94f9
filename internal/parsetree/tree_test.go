package parsetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const whoIsObama = `(ROOT
  (SBARQ
    (WHNP (WP Who))
    (SQ (VBZ is)
      (NP (NNP Obama)))
    (. ?)))`

func TestParseUnwrapsRoot(t *testing.T) {
	tree, err := Parse(whoIsObama)
	require.NoError(t, err)

	assert.Equal(t, "SBARQ", tree.Label)
	require.Equal(t, 3, tree.Len())
	assert.Equal(t, "WHNP", tree.Children[0].Label)
	assert.Equal(t, "WP", tree.Children[0].Children[0].Label)
	assert.Equal(t, "Who", tree.Children[0].Children[0].Word)
	assert.Equal(t, []string{"Who", "is", "Obama", "?"}, tree.Words())
	assert.Equal(t, "Who is Obama ?", tree.Text())
}

func TestParseKeepsMultiChildRoot(t *testing.T) {
	tree, err := Parse("(ROOT (NP (NNP A)) (NP (NNP B)))")
	require.NoError(t, err)
	assert.Equal(t, "ROOT", tree.Label)
	assert.Equal(t, 2, tree.Len())
}

func TestParseUnlabeledWrapper(t *testing.T) {
	tree, err := Parse("( (NP (NNP Obama)))")
	require.NoError(t, err)
	assert.Equal(t, "NP", tree.Label)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no open paren", "NP Obama"},
		{"unclosed", "(NP (NNP Obama)"},
		{"trailing", "(NP (NNP Obama)) (NP)"},
		{"mixed words and phrases", "(NP Obama (NNP Barack))"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			require.Error(t, err)
			var synErr *SyntaxError
			assert.ErrorAs(t, err, &synErr)
		})
	}
}

func TestCompactRoundTrip(t *testing.T) {
	tree := MustParse(whoIsObama)
	compact := tree.Compact()
	assert.Equal(t, "(SBARQ (WHNP (WP Who)) (SQ (VBZ is) (NP (NNP Obama))) (. ?))", compact)

	again := MustParse(compact)
	assert.Equal(t, tree, again)
}

func TestStringIndentsWideTrees(t *testing.T) {
	tree := Phrase("SBARQ",
		Phrase("WHNP", Leaf("WDT", "Which"), Leaf("NNS", "countries")),
		Phrase("SQ",
			Phrase("VP", Leaf("VBP", "have"),
				Phrase("NP",
					Phrase("NP", Leaf("DT", "a"), Leaf("NN", "population")),
					Phrase("PP", Leaf("IN", "over"), Phrase("NP", Leaf("CD", "1000000000")))))),
		Leaf(".", "?"),
	)

	want := `(SBARQ
  (WHNP (WDT Which) (NNS countries))
  (SQ
    (VP
      (VBP have)
      (NP
        (NP (DT a) (NN population))
        (PP (IN over) (NP (CD 1000000000))))))
  (. ?))`
	assert.Equal(t, want, tree.String())
}

func TestStringShortTreeStaysCompact(t *testing.T) {
	tree := Phrase("NP", Leaf("NNP", "Barack"), Leaf("NNP", "Obama"))
	assert.Equal(t, "(NP (NNP Barack) (NNP Obama))", tree.String())
}

func TestParseNormalizesWords(t *testing.T) {
	// "e" followed by a combining acute accent becomes the precomposed form.
	tree := MustParse("(NP (NNP Pele\u0301))")
	assert.Equal(t, "Pel\u00e9", tree.Children[0].Word)
}
