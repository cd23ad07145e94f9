package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammar_BuiltIn(t *testing.T) {
	out, _, err := execute(t, "", "grammar", "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "grammar (built-in): 8 tables, 31 rules")
	assert.Contains(t, out, "find_entity (")
	assert.Contains(t, out, "no issues")
}

func TestGrammar_JSON(t *testing.T) {
	out, _, err := execute(t, "", "--format", "json", "grammar")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   GrammarSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 31, resp.Data.Rules)
	assert.Len(t, resp.Data.Tables, 8)
	assert.Empty(t, resp.Data.Issues)
}

func TestGrammar_VerboseListsPatterns(t *testing.T) {
	_, errOut, err := execute(t, "", "--verbose", "grammar")
	require.NoError(t, err)
	assert.Contains(t, errOut, "find_entity[0] ( SBARQ")
}

func TestGrammar_CompileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte("tables: {"), 0o644))

	out, _, err := execute(t, "", "--grammar", path, "grammar")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}
