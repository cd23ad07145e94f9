package queryir

// Query represents a complete query.
//
// This is a sealed interface. Select is currently its only member.
type Query interface {
	queryNode()
}

// Pattern is one element of a group graph pattern (a WHERE block).
type Pattern interface {
	patternNode()
}

// Term is a subject, predicate or object position of a triple, or an
// operand of a comparison.
type Term interface {
	termNode()
}

// Expr is a filter expression.
type Expr interface {
	exprNode()
}

// Select is a SELECT query.
//
// Semantics:
//
//	SELECT <projection> WHERE { <where> }
//	SELECT (COUNT(*) AS ?<count>) WHERE { <where> }
//
// Exactly one of Projection and Count must be set.
type Select struct {
	Projection []Var
	Count      Var // Alias of a COUNT(*) aggregate
	Where      []Pattern
}

func (Select) queryNode() {}

// Triple is a basic triple pattern: S P O .
type Triple struct {
	S, P, O Term
}

func (Triple) patternNode() {}

// Union joins alternative pattern groups:
//
//	{ <branch 1> } UNION { <branch 2> } ...
type Union struct {
	Branches [][]Pattern
}

func (Union) patternNode() {}

// Optional is an OPTIONAL { ... } group.
type Optional struct {
	Patterns []Pattern
}

func (Optional) patternNode() {}

// Filter restricts the solutions of its enclosing group.
type Filter struct {
	Expr Expr
}

func (Filter) patternNode() {}

// LabelService is the Wikidata label service call that binds ?xLabel for
// every bound ?x in the given language.
type LabelService struct {
	Language string
}

func (LabelService) patternNode() {}

// Var is a query variable, named without the leading "?".
type Var string

func (Var) termNode() {}

// Label returns the variable bound by the label service for v.
func (v Var) Label() Var {
	return v + "Label"
}

// IRI is a resource. Prefixed names ("wd:Q5") are written verbatim; absolute
// IRIs are written in angle brackets.
type IRI string

func (IRI) termNode() {}

// Literal is a string literal with an optional language tag or datatype.
type Literal struct {
	Value    string
	Lang     string
	Datatype IRI
}

func (Literal) termNode() {}

// Number is a numeric literal in its lexical form ("100000", "1.5").
type Number string

func (Number) termNode() {}

// Comparison operators.
const (
	OpEq = "="
	OpLt = "<"
	OpGt = ">"
)

// Compare is a binary comparison: Left Op Right.
type Compare struct {
	Left  Term
	Op    string
	Right Term
}

func (Compare) exprNode() {}

// And is a conjunction (&&). An empty And is vacuously true.
type And struct {
	Exprs []Expr
}

func (And) exprNode() {}

// LangEquals tests the language tag of a variable: LANG(?v) = "en".
type LangEquals struct {
	Var  Var
	Lang string
}

func (LangEquals) exprNode() {}
