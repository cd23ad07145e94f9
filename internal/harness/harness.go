package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/roach88/nlquery/internal/engine"
	"github.com/roach88/nlquery/internal/grammar"
	"github.com/roach88/nlquery/internal/store"
	"github.com/roach88/nlquery/internal/testutil"
	"github.com/roach88/nlquery/internal/wikidata"
)

// Harness is one wired engine with its fakes.
type Harness struct {
	engine   *engine.Engine
	store    *store.Store
	wikidata *testutil.FakeWikidata
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh fake Wikidata and an in-memory query
// log. The fake servers are closed when tb ends. A non-nil error means the
// scenario could not be set up; failed expectations are reported in the
// result instead.
func Run(tb testing.TB, scenario *Scenario) (*Result, error) {
	tb.Helper()
	ctx := context.Background()

	h, err := newHarness(tb, scenario)
	if err != nil {
		return nil, err
	}
	defer h.store.Close()

	result := NewResult()
	recorded := 0
	for i, q := range scenario.Questions {
		outcome := h.ask(ctx, q)
		if outcome.Err == "" {
			recorded++
		}
		result.Outcomes = append(result.Outcomes, outcome)
		for _, msg := range checkExpect(i, q, outcome) {
			result.AddError(msg)
		}
	}

	if err := h.attachGrammars(ctx, result, recorded); err != nil {
		return nil, err
	}
	// Grammar expectations need the query log, so check them after the run.
	for i, q := range scenario.Questions {
		if msg := checkGrammar(i, q, result.Outcomes[i]); msg != "" {
			result.AddError(msg)
		}
	}

	result.Searches = h.wikidata.Searches()
	result.Queries = h.wikidata.Queries()

	actx := &AssertionContext{Store: h.store, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished", "scenario", scenario.Name, "pass", result.Pass)
	return result, nil
}

func newHarness(tb testing.TB, scenario *Scenario) (*Harness, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	today, err := scenario.today()
	if err != nil {
		return nil, fmt.Errorf("invalid today: %w", err)
	}

	g, err := loadGrammar(scenario.Grammar)
	if err != nil {
		return nil, fmt.Errorf("failed to load grammar: %w", err)
	}

	fake := testutil.NewFakeWikidata(tb)
	for _, e := range scenario.Entities {
		fake.AddEntity(e.Kind, e.Name, e.ID, e.Description)
	}
	for _, rule := range scenario.SPARQL {
		fake.OnSPARQL(rule.Contains, rule.Rows...)
	}
	if scenario.FailSPARQL != 0 {
		fake.FailSPARQL(scenario.FailSPARQL)
	}

	parser := testutil.NewCannedParser(nil)
	for _, q := range scenario.Questions {
		if q.Tree != "" {
			parser.Add(engine.Preprocess(q.Ask), q.Tree)
		}
	}

	client := wikidata.NewClient(wikidata.Config{
		APIURL:    fake.APIURL(),
		SPARQLURL: fake.SPARQLURL(),
		Timeout:   5 * time.Second,
	}, wikidata.WithHTTPClient(fake.Client()), wikidata.WithClientLogger(logger))
	kb := wikidata.NewKnowledgeBase(client,
		wikidata.WithClock(testutil.NewFixedClock(today)),
		wikidata.WithLogger(logger))

	st, err := store.Open(":memory:",
		store.WithIDGenerator(testutil.NewSequentialIDs("q")),
		store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}

	return &Harness{
		engine:   engine.New(parser, kb, g, engine.WithRecorder(st), engine.WithLogger(logger)),
		store:    st,
		wikidata: fake,
		logger:   logger,
	}, nil
}

func loadGrammar(path string) (*grammar.Grammar, error) {
	if path == "" {
		return grammar.LoadDefault()
	}
	return grammar.Load(path)
}

// ask answers one question and flattens the answer.
func (h *Harness) ask(ctx context.Context, q Question) Outcome {
	ans, err := h.engine.Ask(ctx, q.Ask)

	outcome := Outcome{
		Ask:    q.Ask,
		Query:  ans.Query,
		Plain:  ans.Plain(),
		Empty:  ans.IsEmpty(),
		SPARQL: ans.SPARQL,
	}
	if err != nil {
		outcome.Err = err.Error()
	}
	if ans.Params != nil {
		// Params marshal infallibly; a failure leaves Params nil and the
		// params expectation reports it.
		outcome.Params, _ = json.Marshal(ans.Params)
	}
	return outcome
}

// attachGrammars copies the recorded grammar of each answered question
// onto its outcome. Questions that failed to parse are not recorded.
func (h *Harness) attachGrammars(ctx context.Context, result *Result, recorded int) error {
	if recorded == 0 {
		return nil
	}
	entries, err := h.store.Recent(ctx, recorded)
	if err != nil {
		return fmt.Errorf("read query log: %w", err)
	}
	if len(entries) != recorded {
		return fmt.Errorf("query log has %d entries, want %d", len(entries), recorded)
	}

	next := 0
	for i := range result.Outcomes {
		if result.Outcomes[i].Err != "" {
			continue
		}
		result.Outcomes[i].Grammar = entries[next].Grammar
		next++
	}
	return nil
}
