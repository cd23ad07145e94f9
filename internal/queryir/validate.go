package queryir

import (
	"fmt"
	"regexp"
	"strconv"
)

// ValidationResult contains the problems found in a query.
type ValidationResult struct {
	// Valid is true when the query can be compiled.
	Valid bool

	// Problems lists everything wrong with the query, in traversal order.
	// Empty when Valid is true.
	Problems []string
}

var varName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that a query is well formed:
//  1. Exactly one of projection and count is given
//  2. Variable names are valid SPARQL names
//  3. Every term, pattern and expression is non-nil and of a known type
//  4. Numbers are numeric, comparisons use a known operator
//  5. Every projected variable is bound by the WHERE block
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		problems: []string{},
		bound:    make(map[Var]bool),
	}
	v.validateQuery(query)

	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems and the variables bound so far.
type validator struct {
	problems []string
	bound    map[Var]bool
	labels   bool
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.addProblem("nil query")
			return
		}
		v.validateSelect(*query)
	case nil:
		v.addProblem("nil query")
	default:
		v.addProblem("unknown query type: %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	switch {
	case len(sel.Projection) == 0 && sel.Count == "":
		v.addProblem("empty projection: select at least one variable or a count")
	case len(sel.Projection) > 0 && sel.Count != "":
		v.addProblem("projection and count are mutually exclusive")
	}
	if len(sel.Where) == 0 {
		v.addProblem("empty WHERE block")
	}

	v.validateGroup(sel.Where)

	if sel.Count != "" {
		v.validateVar(sel.Count)
	}
	for _, name := range sel.Projection {
		v.validateVar(name)
		if !v.isBound(name) {
			v.addProblem("projected variable ?%s is never bound", name)
		}
	}
}

func (v *validator) isBound(name Var) bool {
	if v.bound[name] {
		return true
	}
	if !v.labels {
		return false
	}
	n := len(name) - len("Label")
	return n > 0 && name[n:] == "Label" && v.bound[name[:n]]
}

func (v *validator) validateGroup(patterns []Pattern) {
	for _, p := range patterns {
		v.validatePattern(p)
	}
}

func (v *validator) validatePattern(p Pattern) {
	switch pattern := p.(type) {
	case Triple:
		v.validateTriple(pattern)
	case *Triple:
		v.validateTriple(*pattern)
	case Union:
		v.validateUnion(pattern)
	case *Union:
		v.validateUnion(*pattern)
	case Optional:
		v.validateGroup(pattern.Patterns)
	case *Optional:
		v.validateGroup(pattern.Patterns)
	case Filter:
		v.validateExpr(pattern.Expr)
	case *Filter:
		v.validateExpr(pattern.Expr)
	case LabelService:
		v.validateLabelService(pattern)
	case *LabelService:
		v.validateLabelService(*pattern)
	case nil:
		v.addProblem("nil pattern")
	default:
		v.addProblem("unknown pattern type: %T", p)
	}
}

func (v *validator) validateTriple(t Triple) {
	for _, term := range []Term{t.S, t.P, t.O} {
		v.validateTerm(term)
		if name, ok := asVar(term); ok {
			v.bound[name] = true
		}
	}
}

func (v *validator) validateUnion(u Union) {
	if len(u.Branches) < 2 {
		v.addProblem("union needs at least two branches, got %d", len(u.Branches))
	}
	for _, branch := range u.Branches {
		if len(branch) == 0 {
			v.addProblem("empty union branch")
		}
		v.validateGroup(branch)
	}
}

func (v *validator) validateLabelService(l LabelService) {
	if l.Language == "" {
		v.addProblem("label service without language")
	}
	v.labels = true
}

func (v *validator) validateTerm(t Term) {
	switch term := t.(type) {
	case Var:
		v.validateVar(term)
	case *Var:
		v.validateVar(*term)
	case IRI:
		v.validateIRI(term)
	case *IRI:
		v.validateIRI(*term)
	case Literal, *Literal:
		// Any string is a valid literal.
	case Number:
		v.validateNumber(term)
	case *Number:
		v.validateNumber(*term)
	case nil:
		v.addProblem("nil term")
	default:
		v.addProblem("unknown term type: %T", t)
	}
}

func (v *validator) validateVar(name Var) {
	if !varName.MatchString(string(name)) {
		v.addProblem("invalid variable name %q", string(name))
	}
}

func (v *validator) validateIRI(iri IRI) {
	if iri == "" {
		v.addProblem("empty IRI")
	}
}

func (v *validator) validateNumber(n Number) {
	if _, err := strconv.ParseFloat(string(n), 64); err != nil {
		v.addProblem("number %q is not numeric", string(n))
	}
}

func (v *validator) validateExpr(e Expr) {
	switch expr := e.(type) {
	case Compare:
		v.validateCompare(expr)
	case *Compare:
		v.validateCompare(*expr)
	case And:
		for _, sub := range expr.Exprs {
			v.validateExpr(sub)
		}
	case *And:
		for _, sub := range expr.Exprs {
			v.validateExpr(sub)
		}
	case LangEquals:
		v.validateVar(expr.Var)
	case *LangEquals:
		v.validateVar(expr.Var)
	case nil:
		v.addProblem("nil expression")
	default:
		v.addProblem("unknown expression type: %T", e)
	}
}

func (v *validator) validateCompare(c Compare) {
	switch c.Op {
	case OpEq, OpLt, OpGt:
	default:
		v.addProblem("unknown comparison operator %q", c.Op)
	}
	v.validateTerm(c.Left)
	v.validateTerm(c.Right)
}

func asVar(t Term) (Var, bool) {
	switch term := t.(type) {
	case Var:
		return term, true
	case *Var:
		return *term, true
	default:
		return "", false
	}
}
