package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	result := &Result{Outcomes: []Outcome{
		{Query: "Who did Obama marry?", SPARQL: "SELECT ?valLabel WHERE {\n}\n"},
		{Query: "Hello there?"},
	}}

	want := "# Who did Obama marry?\nSELECT ?valLabel WHERE {\n}\n" +
		"\n" +
		"# Hello there?\n(none)\n"
	assert.Equal(t, want, string(Snapshot(result)))
	assert.Empty(t, Snapshot(&Result{}))
}

// To regenerate golden files after an intentional change in the generated
// queries:
//
//	go test ./internal/harness -run TestRunWithGolden -update
func TestRunWithGolden(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			require.Equal(t, name, scenario.Name, "golden files are named after the scenario")

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}
