package engine

import (
	"context"
	"regexp"
	"strings"

	"github.com/roach88/nlquery/internal/ir"
	"github.com/roach88/nlquery/internal/parsetree"
)

// groupedNumber matches numerals written with thousands separators.
var groupedNumber = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)

// classifyOperator maps the comparison word of a property phrase onto a
// tuple operator.
func classifyOperator(word string) (string, error) {
	switch word {
	case ir.OpIn, ir.OpBy, ir.OpOf, ir.OpFrom:
		return word, nil
	case "over", "above", "more", "greater":
		return ir.OpGreater, nil
	case "under", "below", "less":
		return ir.OpLess, nil
	default:
		return "", NewUnknownOperatorError(word)
	}
}

// inferProperty names the property implied by a unit word ("people").
func inferProperty(units string) string {
	switch units {
	case "people":
		return "population"
	default:
		return ""
	}
}

// normalizeValue drops thousands separators: "100,000" → "100000".
func normalizeValue(value string) string {
	if groupedNumber.MatchString(value) {
		return strings.ReplaceAll(value, ",", "")
	}
	return value
}

// resolveTuples decomposes a property phrase into (prop, value, op) tuples
// using the PropTuple table. It returns false when the phrase does not
// match or any link of a chained phrase fails to resolve.
func (e *Engine) resolveTuples(ctx context.Context, phrase *parsetree.Node) ([]ir.PropTuple, bool) {
	caps, ok := MatchRules(phrase, e.grammar.PropTuple)
	if !ok {
		e.logger.DebugContext(ctx, "property phrase did not match", "phrase", phrase.Compact())
		return nil, false
	}
	return e.propTuple(ctx, caps)
}

func (e *Engine) propTuple(ctx context.Context, caps Captures) ([]ir.PropTuple, bool) {
	op, err := classifyOperator(caps.Text("op"))
	if err != nil {
		e.logger.ErrorContext(ctx, "property tuple rejected", "error", err)
		return nil, false
	}

	prop := caps.Text("prop")
	if prop == "" && caps.Has("value_units") {
		units := caps.Text("value_units")
		if prop = inferProperty(units); prop == "" {
			e.logger.DebugContext(ctx, "no property for units", "units", units)
			return nil, false
		}
	}

	tuple := ir.T(prop, normalizeValue(caps.Text("value")), op)
	e.logger.DebugContext(ctx, "property tuple", "tuple", tuple.String())
	props := []ir.PropTuple{tuple}

	if caps.Has("pp_t") {
		chained, ok := e.resolveTuples(ctx, caps.Tree("pp_t"))
		if !ok {
			return nil, false
		}
		props = append(props, chained...)
	}
	return props, true
}
