package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_AfterAsk(t *testing.T) {
	env := newTestEnv(t)

	for _, q := range []string{"Who is Obama?", "Hello there", "who is obama"} {
		_, _, err := execute(t, "", "--config", env.configPath, "ask", q)
		require.NoError(t, err)
	}

	out, _, err := execute(t, "", "--config", env.configPath, "history")
	require.NoError(t, err)
	assert.Equal(t,
		"   1  subject_prop  Who is Obama?  => 44th president of the United States\n"+
			"   2  none          Hello there?  => (no answer)\n"+
			"   3  subject_prop  who is obama?  => 44th president of the United States\n",
		out)

	out, _, err = execute(t, "", "--config", env.configPath, "history", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "   3  subject_prop")
	assert.NotContains(t, out, "Hello there")
}

func TestHistory_ByQuestion(t *testing.T) {
	env := newTestEnv(t)
	for _, q := range []string{"Who is Obama?", "Hello there", "who is  Obama"} {
		_, _, err := execute(t, "", "--config", env.configPath, "ask", q)
		require.NoError(t, err)
	}

	out, _, err := execute(t, "", "--db", env.dbPath, "--format", "json", "history", "--question", "Who is Obama")
	require.NoError(t, err)

	var resp struct {
		Data History `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.Data.Count)
	require.Len(t, resp.Data.Entries, 2)
	assert.Equal(t, "subject_prop", resp.Data.Entries[0].Grammar)
	assert.JSONEq(t, `{"qtype": "who", "subject": "obama", "prop": null}`, string(resp.Data.Entries[0].Params))
}

func TestHistory_Empty(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := execute(t, "", "--config", env.configPath, "history")
	require.NoError(t, err)
	assert.Equal(t, "no queries recorded\n", out)
}

func TestHistory_NotConfigured(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "", "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
