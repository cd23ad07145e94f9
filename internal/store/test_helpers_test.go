package store

import (
	"database/sql"
	"testing"

	"github.com/roach88/nlquery/internal/ir"
	"github.com/roach88/nlquery/internal/testutil"
)

// createTestStore creates a new in-memory store with sequential IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", WithIDGenerator(testutil.NewSequentialIDs("q")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// entityAnswer builds a finalized find-entity answer.
func entityAnswer(query string, data ir.Value, props ...ir.PropTuple) *ir.Answer {
	ans := ir.NewAnswer(data, "SELECT ?valLabel WHERE {}").
		WithParams(ir.EntityParams{QType: "which", Inst: "country", Props: props})
	ans.Finalize(query, "(ROOT)")
	return ans
}

func sqlNull() sql.NullString { return sql.NullString{} }

func sqlText(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
