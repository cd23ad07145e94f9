package cli

import (
	"bytes"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/nlquery/internal/testutil"
	"github.com/roach88/nlquery/internal/wikidata"
)

var cannedTrees = map[string]string{
	"Who is Obama?":  "(ROOT (SBARQ (WHNP (WP Who)) (SQ (VBZ is) (NP (NNP Obama))) (. ?)))",
	"who is obama?":  "(ROOT (SBARQ (WHNP (WP who)) (SQ (VBZ is) (NP (NNP obama))) (. ?)))",
	"who is  Obama?": "(ROOT (SBARQ (WHNP (WP who)) (SQ (VBZ is) (NP (NNP Obama))) (. ?)))",
	"Hello there?":   "(ROOT (FRAG (INTJ (UH Hello)) (ADVP (RB there)) (. ?)))",
}

// testEnv is a config file pointing at fake parser and Wikidata servers.
type testEnv struct {
	parser     *testutil.FakeCoreNLP
	wikidata   *testutil.FakeWikidata
	configPath string
	dbPath     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		parser:   testutil.NewFakeCoreNLP(t, cannedTrees),
		wikidata: testutil.NewFakeWikidata(t),
		dbPath:   filepath.Join(t.TempDir(), "queries.db"),
	}
	env.wikidata.AddEntity(wikidata.KindItem, "obama", "Q76", "44th president of the United States")
	env.configPath = writeConfig(t, env.parser.URL(), env.wikidata, env.dbPath)
	return env
}

func writeConfig(t *testing.T, parserURL string, wd *testutil.FakeWikidata, dbPath string) string {
	t.Helper()
	u, err := url.Parse(parserURL)
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)

	cfg := fmt.Sprintf(`
[parser]
host = %q
port = %s
timeout_seconds = 5

[wikidata]
api_url = %q
sparql_url = %q
requests_per_second = 0
timeout_seconds = 5

[store]
path = %q

[log]
level = "error"
`, host, port, wd.APIURL(), wd.SPARQLURL(), dbPath)

	path := filepath.Join(t.TempDir(), "nlquery.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

// execute runs the root command and returns stdout, stderr and the error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SetContext(t.Context())

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
