package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/roach88/nlquery/internal/grammar"
	"github.com/roach88/nlquery/internal/ir"
	"github.com/roach88/nlquery/internal/metrics"
	"github.com/roach88/nlquery/internal/parsetree"
)

// Output formats accepted by Query.
const (
	FormatPlain = "plain"
	FormatRaw   = "raw"
)

// Names of the grammar that produced an answer, as counted and recorded.
const (
	GrammarFindEntity  = "find_entity"
	GrammarSubjectProp = "subject_prop"
	GrammarNone        = "none"
)

// Parser turns a sentence into a constituency parse tree.
// Implementations wrap ErrParserUnavailable when the service is unreachable.
type Parser interface {
	Parse(ctx context.Context, sentence string) (*parsetree.Node, error)
}

// KnowledgeBase answers the two query shapes the planners produce.
//
// A nil answer with a nil error means the source had no data. Errors are
// logged by the engine and degrade to an empty answer.
type KnowledgeBase interface {
	GetProperty(ctx context.Context, qtype, subject, prop string) (*ir.Answer, error)
	FindEntity(ctx context.Context, qtype, inst string, props []ir.PropTuple) (*ir.Answer, error)
}

// Recorder persists answered questions (the query log).
type Recorder interface {
	Record(ctx context.Context, grammarName string, ans *ir.Answer) error
}

// Singularizer maps a plural noun phrase onto its singular form.
type Singularizer func(string) string

// Engine answers questions. The grammar is read-only after construction,
// so one Engine is safe for concurrent use by many goroutines as long as
// its collaborators are.
type Engine struct {
	parser      Parser
	kb          KnowledgeBase
	grammar     *grammar.Grammar
	singularize Singularizer
	recorder    Recorder
	logger      *slog.Logger
}

// Option allows configuration of engine collaborators.
type Option func(*Engine)

// WithSingularizer replaces the default singularizer (inflection.Singular).
func WithSingularizer(fn Singularizer) Option {
	return func(e *Engine) {
		e.singularize = fn
	}
}

// WithRecorder enables the query log.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine answering questions with parser, kb and g.
func New(parser Parser, kb KnowledgeBase, g *grammar.Grammar, opts ...Option) *Engine {
	e := &Engine{
		parser:      parser,
		kb:          kb,
		grammar:     g,
		singularize: inflection.Singular,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Preprocess ensures the sentence ends with a question mark.
func Preprocess(sentence string) string {
	sentence = strings.TrimSpace(sentence)
	if !strings.HasSuffix(sentence, "?") {
		sentence += "?"
	}
	return sentence
}

// Ask answers a question.
//
// The returned answer is always non-nil and finalized. The error is
// non-nil only when the sentence could not be parsed; use
// IsParserUnavailable to recognize an unreachable parser.
func (e *Engine) Ask(ctx context.Context, sentence string) (*ir.Answer, error) {
	query := Preprocess(sentence)
	e.logger.InfoContext(ctx, "question", "query", query)

	tree, err := e.parser.Parse(ctx, query)
	if err != nil {
		e.logger.ErrorContext(ctx, "parse failed", "query", query, "error", err)
		ans := ir.Empty()
		ans.Finalize(query, "")
		metrics.QueriesTotal.WithLabelValues(GrammarNone).Inc()
		return ans, fmt.Errorf("parse %q: %w", query, err)
	}
	e.logger.DebugContext(ctx, "parse tree", "tree", tree.Compact())

	grammarName, ans := e.answer(ctx, tree)
	if ans == nil {
		ans = ir.Empty()
	}
	ans.Finalize(query, tree.String())

	if ans.SPARQL != "" {
		e.logger.DebugContext(ctx, "sparql", "query", ans.SPARQL)
	}
	metrics.QueriesTotal.WithLabelValues(grammarName).Inc()
	e.record(ctx, grammarName, ans)
	return ans, nil
}

// answer tries the find-entity grammar, then the subject-property grammar.
// The first non-nil answer wins.
func (e *Engine) answer(ctx context.Context, tree *parsetree.Node) (string, *ir.Answer) {
	if caps, ok := MatchRules(tree, e.grammar.FindEntity); ok {
		if ans := e.planEntity(ctx, caps); ans != nil {
			return GrammarFindEntity, ans
		}
	}
	if caps, ok := MatchRules(tree, e.grammar.SubjectProp); ok {
		if ans := e.planSubject(ctx, caps); ans != nil {
			return GrammarSubjectProp, ans
		}
	}
	e.logger.InfoContext(ctx, "no grammar matched", "tree", tree.Compact())
	return GrammarNone, nil
}

func (e *Engine) record(ctx context.Context, grammarName string, ans *ir.Answer) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ctx, grammarName, ans); err != nil {
		e.logger.WarnContext(ctx, "query log write failed", "error", err)
	}
}

// Query answers a question in the requested format: FormatPlain returns
// the plain string, FormatRaw returns an ir.RawAnswer.
//
// An unknown format fails with an invalid argument error before any work
// is done. Parser failures degrade to an empty answer.
func (e *Engine) Query(ctx context.Context, sentence, format string) (any, error) {
	if format != FormatPlain && format != FormatRaw {
		return nil, NewFormatError(format)
	}

	// Ask logs parse failures and still returns a finalized empty answer.
	ans, _ := e.Ask(ctx, sentence)

	if format == FormatRaw {
		return ans.Raw(), nil
	}
	return ans.Plain(), nil
}
