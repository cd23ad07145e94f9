package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "nlquery", cmd.Use)
	assert.Contains(t, cmd.Long, "Wikidata")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"ask", "repl", "serve", "grammar", "history"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "command %s should exist", name)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("grammar"))
}

func TestCommandFlags(t *testing.T) {
	testCases := []struct {
		command string
		flag    string
		def     string
	}{
		{"serve", "addr", ""},
		{"grammar", "strict", "false"},
		{"history", "db", ""},
		{"history", "limit", "20"},
		{"history", "question", ""},
	}

	cmd := NewRootCommand()
	for _, tc := range testCases {
		t.Run(tc.command+"/"+tc.flag, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{tc.command})
			require.NoError(t, err)
			f := sub.Flags().Lookup(tc.flag)
			require.NotNil(t, f)
			assert.Equal(t, tc.def, f.DefValue)
		})
	}
}

func TestFormatValidation(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "grammar"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAskRequiresQuestion(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"ask"})
	assert.Error(t, cmd.Execute())
}
