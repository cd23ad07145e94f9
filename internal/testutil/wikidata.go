package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// SPARQLTerm is one bound value in a SPARQL JSON result row.
type SPARQLTerm struct {
	Type     string `json:"type" yaml:"type"`
	Value    string `json:"value" yaml:"value"`
	Datatype string `json:"datatype,omitempty" yaml:"datatype,omitempty"`
}

// SPARQLRow is a SPARQL JSON result row.
type SPARQLRow map[string]SPARQLTerm

// LabelRow builds a row binding ?valLabel, and ?type when valueType is set.
func LabelRow(label, valueType string) SPARQLRow {
	row := SPARQLRow{"valLabel": {Type: "literal", Value: label}}
	if valueType != "" {
		row["type"] = SPARQLTerm{Type: "uri", Value: valueType}
	}
	return row
}

// CountRow builds the single row of a COUNT(*) query.
func CountRow(n string) SPARQLRow {
	return SPARQLRow{"count": {
		Type:     "literal",
		Value:    n,
		Datatype: "http://www.w3.org/2001/XMLSchema#integer",
	}}
}

type searchHit struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

type sparqlRule struct {
	contains string
	rows     []SPARQLRow
}

// FakeWikidata serves the wbsearchentities action API and the SPARQL
// endpoint from in-memory fixtures.
//
// Searches match case-insensitively on the exact name. A SPARQL query is
// answered by the first rule whose fragment it contains; unmatched queries
// get an empty result set.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FakeWikidata struct {
	server *httptest.Server

	mu           sync.Mutex
	entities     map[string]searchHit
	rules        []sparqlRule
	sparqlStatus int
	searches     []string
	queries      []string
}

// NewFakeWikidata starts a fake server, closed when the test ends.
func NewFakeWikidata(t testing.TB) *FakeWikidata {
	t.Helper()
	f := &FakeWikidata{entities: make(map[string]searchHit)}

	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", f.handleSearch)
	mux.HandleFunc("/sparql", f.handleSPARQL)
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	return f
}

// APIURL is the action API endpoint.
func (f *FakeWikidata) APIURL() string {
	return f.server.URL + "/w/api.php"
}

// SPARQLURL is the query service endpoint.
func (f *FakeWikidata) SPARQLURL() string {
	return f.server.URL + "/sparql"
}

// Client returns an HTTP client for the fake server.
func (f *FakeWikidata) Client() *http.Client {
	return f.server.Client()
}

func entityKey(kind, name string) string {
	return kind + "\x00" + strings.ToLower(name)
}

// AddEntity registers a search result for name.
func (f *FakeWikidata) AddEntity(kind, name, id, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entities[entityKey(kind, name)] = searchHit{ID: id, Label: name, Description: description}
}

// OnSPARQL answers queries containing fragment with rows.
func (f *FakeWikidata) OnSPARQL(fragment string, rows ...SPARQLRow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, sparqlRule{contains: fragment, rows: rows})
}

// FailSPARQL makes the SPARQL endpoint answer with status. Zero restores
// normal service.
func (f *FakeWikidata) FailSPARQL(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sparqlStatus = status
}

// Searches returns the "kind:name" searches received, in order.
func (f *FakeWikidata) Searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

// Queries returns the SPARQL queries received, in order.
func (f *FakeWikidata) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *FakeWikidata) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("action") != "wbsearchentities" {
		http.Error(w, "unsupported action", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.searches = append(f.searches, q.Get("type")+":"+q.Get("search"))
	hit, ok := f.entities[entityKey(q.Get("type"), q.Get("search"))]
	f.mu.Unlock()

	resp := struct {
		Search []searchHit `json:"search"`
	}{Search: []searchHit{}}
	if ok {
		resp.Search = append(resp.Search, hit)
	}
	writeJSON(w, resp)
}

func (f *FakeWikidata) handleSPARQL(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	f.mu.Lock()
	f.queries = append(f.queries, query)
	status := f.sparqlStatus
	rows := []SPARQLRow{}
	for _, rule := range f.rules {
		if strings.Contains(query, rule.contains) {
			rows = append(rows, rule.rows...)
			break
		}
	}
	f.mu.Unlock()

	if status != 0 {
		http.Error(w, "query service unavailable", status)
		return
	}

	var resp struct {
		Head struct {
			Vars []string `json:"vars"`
		} `json:"head"`
		Results struct {
			Bindings []SPARQLRow `json:"bindings"`
		} `json:"results"`
	}
	resp.Head.Vars = []string{}
	resp.Results.Bindings = rows
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
