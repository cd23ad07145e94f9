package harness

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders the SPARQL issued for each question:
//
//	# <query>
//	<sparql query, or "(none)">
//
// Sections are separated by a blank line.
func Snapshot(result *Result) []byte {
	parts := make([]string, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		sparql := o.SPARQL
		if sparql == "" {
			sparql = "(none)\n"
		}
		parts = append(parts, "# "+o.Query+"\n"+sparql)
	}
	return []byte(strings.Join(parts, "\n"))
}

// RunWithGolden executes a scenario and compares the SPARQL it issued
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can check Pass; returns an error if the
// scenario could not be run.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t, scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(result))
}
