package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/roach88/nlquery/internal/parsetree"
)

// CannedParser parses sentences by looking up a bracketed tree.
type CannedParser struct {
	mu    sync.Mutex
	trees map[string]string
}

// NewCannedParser creates a parser over sentence → bracketed tree.
func NewCannedParser(trees map[string]string) *CannedParser {
	p := &CannedParser{trees: make(map[string]string, len(trees))}
	for sentence, tree := range trees {
		p.trees[sentence] = tree
	}
	return p
}

// Add registers one more sentence.
func (p *CannedParser) Add(sentence, tree string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trees[sentence] = tree
}

// Parse returns the canned tree for sentence.
func (p *CannedParser) Parse(_ context.Context, sentence string) (*parsetree.Node, error) {
	p.mu.Lock()
	tree, ok := p.trees[sentence]
	p.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no canned parse for %q", sentence)
	}
	return parsetree.Parse(tree)
}

// FakeCoreNLP serves the CoreNLP server's annotate endpoint from canned
// trees. Sentences without a tree get an empty sentence list.
type FakeCoreNLP struct {
	server *httptest.Server
	parser *CannedParser

	mu         sync.Mutex
	properties []string
}

// NewFakeCoreNLP starts a fake server, closed when the test ends.
func NewFakeCoreNLP(t testing.TB, trees map[string]string) *FakeCoreNLP {
	t.Helper()
	f := &FakeCoreNLP{parser: NewCannedParser(trees)}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

// URL is the server base URL.
func (f *FakeCoreNLP) URL() string {
	return f.server.URL
}

// Properties returns the "properties" parameters received, in order.
func (f *FakeCoreNLP) Properties() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.properties...)
}

func (f *FakeCoreNLP) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.properties = append(f.properties, r.URL.Query().Get("properties"))
	f.mu.Unlock()

	type sentence struct {
		Index int    `json:"index"`
		Parse string `json:"parse"`
	}
	resp := struct {
		Sentences []sentence `json:"sentences"`
	}{Sentences: []sentence{}}

	f.parser.mu.Lock()
	tree, ok := f.parser.trees[string(body)]
	f.parser.mu.Unlock()
	if ok {
		resp.Sentences = append(resp.Sentences, sentence{Index: 0, Parse: tree})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
