package wikidata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/nlquery/internal/ir"
	"github.com/roach88/nlquery/internal/queryir"
	"github.com/roach88/nlquery/internal/rest"
)

// Question types FindEntity understands.
const (
	QTypeHowMany = "how many"
	QTypeWhich   = "which"
	QTypeWho     = "who"
)

// UnknownQuestionTypeError reports a qtype FindEntity has no selection for.
type UnknownQuestionTypeError struct {
	QType string
}

func (e *UnknownQuestionTypeError) Error() string {
	return fmt.Sprintf("question type %q not known", e.QType)
}

// IsUnknownQuestionType reports whether err is an UnknownQuestionTypeError.
func IsUnknownQuestionType(err error) bool {
	var qe *UnknownQuestionTypeError
	return errors.As(err, &qe)
}

// Clock provides the reference time for ages and "in <year>" questions.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// aliasProps name the aliases of the subject rather than a property.
var aliasProps = map[string]bool{
	"nickname": true,
	"known as": true,
	"alias":    true,
	"called":   true,
}

// roleTitles are instances that read as an office; "president of France"
// folds the "of" tuple into the instance name.
var roleTitles = map[string]bool{
	"the president":      true,
	"president":          true,
	"the prime minister": true,
	"prime minister":     true,
}

// KnowledgeBase answers planner queries from Wikidata.
type KnowledgeBase struct {
	client *Client
	clock  Clock
	logger *slog.Logger
}

// Option configures a KnowledgeBase.
type Option func(*KnowledgeBase)

// WithClock sets the reference clock (default: the system clock).
func WithClock(c Clock) Option {
	return func(kb *KnowledgeBase) {
		kb.clock = c
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(kb *KnowledgeBase) {
		kb.logger = l
	}
}

// NewKnowledgeBase creates a knowledge base backed by client.
func NewKnowledgeBase(client *Client, opts ...Option) *KnowledgeBase {
	kb := &KnowledgeBase{
		client: client,
		clock:  systemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(kb)
	}
	return kb
}

// GetProperty answers a subject-property query. A nil answer and nil error
// mean the subject or property could not be resolved.
func (kb *KnowledgeBase) GetProperty(ctx context.Context, qtype, subject, prop string) (*ir.Answer, error) {
	if prop == "" {
		return kb.description(ctx, subject)
	}
	if aliasProps[prop] {
		return kb.aliases(ctx, subject)
	}

	var pid string
	switch prop {
	case "age":
		return kb.age(ctx, subject)
	case "born":
		switch qtype {
		case "where":
			pid = PropPlaceOfBirth
		case "when":
			pid = PropDateOfBirth
		}
	case "height":
		pid = PropElevation + "," + PropHeight
	}
	return kb.property(ctx, subject, prop, pid)
}

func (kb *KnowledgeBase) description(ctx context.Context, subject string) (*ir.Answer, error) {
	hit, err := kb.client.SearchEntity(ctx, subject, KindItem)
	if err != nil {
		return nil, err
	}
	if hit == nil {
		return nil, nil
	}
	return ir.NewAnswer(ir.Text(hit.Description), ""), nil
}

// property looks up prop on subject. pid overrides name resolution of prop
// and may list several comma-separated properties.
func (kb *KnowledgeBase) property(ctx context.Context, subject, prop, pid string) (*ir.Answer, error) {
	kb.logger.DebugContext(ctx, "get property", "subject", subject, "prop", prop, "pid", pid)

	subjectID, err := kb.client.ResolveID(ctx, subject, KindItem)
	if errors.Is(err, ErrNotFound) {
		kb.logger.InfoContext(ctx, "subject not found", "subject", subject)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if pid == "" {
		pid, err = kb.client.ResolveID(ctx, prop, KindProperty)
		if errors.Is(err, ErrNotFound) {
			kb.logger.InfoContext(ctx, "property not found", "prop", prop)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}

	result, err := kb.client.Select(ctx, propertyQuery(subjectID, pid, kb.client.Language()))
	if err != nil {
		return nil, err
	}
	return ir.NewAnswer(rowValues(result.Rows), result.SPARQL), nil
}

func (kb *KnowledgeBase) age(ctx context.Context, subject string) (*ir.Answer, error) {
	ans, err := kb.property(ctx, subject, "date of birth", PropDateOfBirth)
	if ans == nil || err != nil {
		return ans, err
	}

	values, _ := ans.Data.(ir.List)
	if len(values) == 0 {
		return ir.NewAnswer(nil, ans.SPARQL), nil
	}
	birth, ok := values[0].(ir.Date)
	if !ok {
		kb.logger.WarnContext(ctx, "date of birth is not a date", "subject", subject, "value", ir.Render(values[0]))
		return ir.NewAnswer(nil, ans.SPARQL), nil
	}
	years := yearsBetween(birth.Time, kb.clock.Now())
	return ir.NewAnswer(ir.Int(years), ans.SPARQL), nil
}

func (kb *KnowledgeBase) aliases(ctx context.Context, subject string) (*ir.Answer, error) {
	subjectID, err := kb.client.ResolveID(ctx, subject, KindItem)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	result, err := kb.client.Select(ctx, aliasQuery(subjectID, kb.client.Language()))
	if err != nil {
		return nil, err
	}
	return ir.NewAnswer(rowValues(result.Rows), result.SPARQL), nil
}

// FindEntity answers an entity-enumeration query. A nil answer and nil
// error mean the instance could not be resolved.
func (kb *KnowledgeBase) FindEntity(ctx context.Context, qtype, inst string, props []ir.PropTuple) (*ir.Answer, error) {
	inst, props = foldRoleTitle(inst, props)
	kb.logger.InfoContext(ctx, "find entity", "qtype", qtype, "inst", inst, "props", len(props))

	instID, err := kb.client.ResolveID(ctx, inst, KindItem)
	if errors.Is(err, ErrNotFound) {
		kb.logger.InfoContext(ctx, "instance not found", "inst", inst)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	q := queryir.Select{Where: []queryir.Pattern{entityBase(instID)}}
	switch qtype {
	case QTypeHowMany:
		q.Count = varCount
	case QTypeWhich, QTypeWho:
		q.Projection = []queryir.Var{varVal.Label()}
	default:
		err := &UnknownQuestionTypeError{QType: qtype}
		kb.logger.ErrorContext(ctx, "find entity rejected", "error", err)
		return nil, err
	}

	for i, tuple := range props {
		clause, err := kb.tupleClause(ctx, i, tuple)
		if err != nil {
			return nil, fmt.Errorf("tuple %s: %w", tuple, err)
		}
		q.Where = append(q.Where, clause...)
	}
	q.Where = append(q.Where, queryir.LabelService{Language: kb.client.Language()})

	result, err := kb.client.Select(ctx, q)
	if err != nil {
		if result != nil && rest.IsDecode(err) {
			kb.logger.ErrorContext(ctx, "error parsing sparql response", "error", err)
			return ir.NewAnswer(nil, result.SPARQL), nil
		}
		return nil, err
	}

	if qtype == QTypeHowMany {
		return ir.NewAnswer(countValue(result.Rows), result.SPARQL), nil
	}
	return ir.NewAnswer(rowValues(result.Rows), result.SPARQL), nil
}

// tupleClause translates the i-th (prop, value, op) tuple into graph
// patterns. Variables introduced by the clause are scoped to i.
func (kb *KnowledgeBase) tupleClause(ctx context.Context, i int, t ir.PropTuple) ([]queryir.Pattern, error) {
	switch t.Op {
	case ir.OpGreater, ir.OpLess:
		pid, err := kb.client.ResolveID(ctx, t.Prop, KindProperty)
		if err != nil {
			return nil, err
		}
		return compareClause(i, pid, t.Op, t.Value), nil

	case ir.OpIn, ir.OpBy, ir.OpOf, ir.OpFrom:
		if t.Op == ir.OpIn && isDigits(t.Value) {
			instant, ok := yearInstant(t.Value, kb.clock.Now())
			if !ok {
				return nil, fmt.Errorf("year %q out of range", t.Value)
			}
			return tenureClause(instant), nil
		}

		valueID, err := kb.client.ResolveID(ctx, t.Value, KindItem)
		if err != nil {
			return nil, err
		}
		if t.Op == ir.OpOf {
			return employerClause(valueID), nil
		}
		if t.Prop == "" {
			return guessedRelationClause(i, valueID), nil
		}

		pid, err := kb.relationProperty(ctx, t)
		if err != nil {
			return nil, err
		}
		return relationClause(pid, valueID), nil

	default:
		return nil, fmt.Errorf("operator %q not supported", t.Op)
	}
}

// relationProperty resolves the property of a direct relation tuple.
// "died/killed by" means cause of death, not place of death.
func (kb *KnowledgeBase) relationProperty(ctx context.Context, t ir.PropTuple) (string, error) {
	if (t.Prop == "died" || t.Prop == "killed") && (t.Op == ir.OpFrom || t.Op == ir.OpBy || t.Op == ir.OpOf) {
		return PropCauseOfDeath, nil
	}
	return kb.client.ResolveID(ctx, t.Prop, KindProperty)
}

// foldRoleTitle rewrites ("president", [(_, "France", of)]) into
// ("president of France", []). The input slice is not modified.
func foldRoleTitle(inst string, props []ir.PropTuple) (string, []ir.PropTuple) {
	if !roleTitles[strings.ToLower(inst)] {
		return inst, props
	}
	for i, t := range props {
		if t.Op == ir.OpOf {
			rest := make([]ir.PropTuple, 0, len(props)-1)
			rest = append(rest, props[:i]...)
			rest = append(rest, props[i+1:]...)
			return inst + " of " + t.Value, rest
		}
	}
	return inst, props
}
