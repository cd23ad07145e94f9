// Package querysparql compiles queryir queries to SPARQL text.
//
// Output is deterministic: the same query always renders to the same bytes,
// one pattern per line, nested groups indented by Indent. No PREFIX
// declarations are emitted; the Wikidata endpoint predefines wd:, wdt:, p:,
// ps:, psv:, pq:, wikibase:, bd:, rdfs:, rdf:, skos: and xsd:.
package querysparql

import (
	"fmt"
	"strings"

	"github.com/roach88/nlquery/internal/queryir"
)

// SPARQLCompiler compiles queryir queries to SPARQL text.
type SPARQLCompiler struct {
	// Indent is written once per nesting level.
	Indent string
}

// NewSPARQLCompiler creates a compiler indenting with two spaces.
func NewSPARQLCompiler() *SPARQLCompiler {
	return &SPARQLCompiler{Indent: "  "}
}

// Compile renders q with the default compiler.
func Compile(q queryir.Query) (string, error) {
	return NewSPARQLCompiler().Compile(q)
}

// Compile converts a query to SPARQL. Invalid queries (see queryir.Validate)
// are rejected before rendering.
func (c *SPARQLCompiler) Compile(q queryir.Query) (string, error) {
	if result := queryir.Validate(q); !result.Valid {
		return "", fmt.Errorf("invalid query: %s", strings.Join(result.Problems, "; "))
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SPARQLCompiler) compileSelect(q queryir.Select) (string, error) {
	var b strings.Builder

	b.WriteString("SELECT ")
	if q.Count != "" {
		fmt.Fprintf(&b, "(COUNT(*) AS ?%s)", q.Count)
	} else {
		vars := make([]string, len(q.Projection))
		for i, v := range q.Projection {
			vars[i] = "?" + string(v)
		}
		b.WriteString(strings.Join(vars, " "))
	}
	b.WriteString(" WHERE {\n")

	if err := c.writeGroup(&b, q.Where, 1); err != nil {
		return "", err
	}

	b.WriteString("}\n")
	return b.String(), nil
}

func (c *SPARQLCompiler) writeGroup(b *strings.Builder, patterns []queryir.Pattern, depth int) error {
	for _, p := range patterns {
		if err := c.writePattern(b, p, depth); err != nil {
			return err
		}
	}
	return nil
}

func (c *SPARQLCompiler) line(b *strings.Builder, depth int, text string) {
	b.WriteString(strings.Repeat(c.Indent, depth))
	b.WriteString(text)
	b.WriteByte('\n')
}

func (c *SPARQLCompiler) writePattern(b *strings.Builder, p queryir.Pattern, depth int) error {
	switch pattern := p.(type) {
	case queryir.Triple:
		return c.writeTriple(b, pattern, depth)
	case *queryir.Triple:
		return c.writeTriple(b, *pattern, depth)
	case queryir.Union:
		return c.writeUnion(b, pattern, depth)
	case *queryir.Union:
		return c.writeUnion(b, *pattern, depth)
	case queryir.Optional:
		return c.writeOptional(b, pattern, depth)
	case *queryir.Optional:
		return c.writeOptional(b, *pattern, depth)
	case queryir.Filter:
		return c.writeFilter(b, pattern, depth)
	case *queryir.Filter:
		return c.writeFilter(b, *pattern, depth)
	case queryir.LabelService:
		c.writeLabelService(b, pattern, depth)
		return nil
	case *queryir.LabelService:
		c.writeLabelService(b, *pattern, depth)
		return nil
	default:
		return fmt.Errorf("unsupported pattern type: %T", p)
	}
}

func (c *SPARQLCompiler) writeTriple(b *strings.Builder, t queryir.Triple, depth int) error {
	parts := make([]string, 0, 3)
	for _, term := range []queryir.Term{t.S, t.P, t.O} {
		s, err := compileTerm(term)
		if err != nil {
			return err
		}
		parts = append(parts, s)
	}
	c.line(b, depth, strings.Join(parts, " ")+" .")
	return nil
}

// writeUnion renders
//
//	{
//	  ...
//	}
//	UNION
//	{
//	  ...
//	}
func (c *SPARQLCompiler) writeUnion(b *strings.Builder, u queryir.Union, depth int) error {
	for i, branch := range u.Branches {
		if i > 0 {
			c.line(b, depth, "UNION")
		}
		c.line(b, depth, "{")
		if err := c.writeGroup(b, branch, depth+1); err != nil {
			return err
		}
		c.line(b, depth, "}")
	}
	return nil
}

func (c *SPARQLCompiler) writeOptional(b *strings.Builder, o queryir.Optional, depth int) error {
	c.line(b, depth, "OPTIONAL {")
	if err := c.writeGroup(b, o.Patterns, depth+1); err != nil {
		return err
	}
	c.line(b, depth, "}")
	return nil
}

func (c *SPARQLCompiler) writeFilter(b *strings.Builder, f queryir.Filter, depth int) error {
	expr, err := compileExpr(f.Expr, false)
	if err != nil {
		return err
	}
	c.line(b, depth, "FILTER("+expr+")")
	return nil
}

func (c *SPARQLCompiler) writeLabelService(b *strings.Builder, l queryir.LabelService, depth int) {
	c.line(b, depth, fmt.Sprintf("SERVICE wikibase:label { bd:serviceParam wikibase:language %s . }", quote(l.Language)))
}

// compileExpr renders an expression. Nested conjunctions are parenthesized.
func compileExpr(e queryir.Expr, nested bool) (string, error) {
	switch expr := e.(type) {
	case queryir.Compare:
		return compileCompare(expr)
	case *queryir.Compare:
		return compileCompare(*expr)
	case queryir.And:
		return compileAnd(expr, nested)
	case *queryir.And:
		return compileAnd(*expr, nested)
	case queryir.LangEquals:
		return fmt.Sprintf("LANG(?%s) = %s", expr.Var, quote(expr.Lang)), nil
	case *queryir.LangEquals:
		return fmt.Sprintf("LANG(?%s) = %s", expr.Var, quote(expr.Lang)), nil
	default:
		return "", fmt.Errorf("unsupported expression type: %T", e)
	}
}

func compileCompare(cmp queryir.Compare) (string, error) {
	left, err := compileTerm(cmp.Left)
	if err != nil {
		return "", err
	}
	right, err := compileTerm(cmp.Right)
	if err != nil {
		return "", err
	}
	return left + " " + cmp.Op + " " + right, nil
}

func compileAnd(and queryir.And, nested bool) (string, error) {
	if len(and.Exprs) == 0 {
		return "true", nil
	}

	parts := make([]string, 0, len(and.Exprs))
	for _, sub := range and.Exprs {
		s, err := compileExpr(sub, true)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}

	s := strings.Join(parts, " && ")
	if nested && len(parts) > 1 {
		s = "(" + s + ")"
	}
	return s, nil
}

func compileTerm(t queryir.Term) (string, error) {
	switch term := t.(type) {
	case queryir.Var:
		return "?" + string(term), nil
	case *queryir.Var:
		return "?" + string(*term), nil
	case queryir.IRI:
		return compileIRI(term), nil
	case *queryir.IRI:
		return compileIRI(*term), nil
	case queryir.Literal:
		return compileLiteral(term), nil
	case *queryir.Literal:
		return compileLiteral(*term), nil
	case queryir.Number:
		return string(term), nil
	case *queryir.Number:
		return string(*term), nil
	default:
		return "", fmt.Errorf("unsupported term type: %T", t)
	}
}

func compileIRI(iri queryir.IRI) string {
	s := string(iri)
	if strings.Contains(s, "://") {
		return "<" + s + ">"
	}
	return s
}

func compileLiteral(l queryir.Literal) string {
	s := quote(l.Value)
	switch {
	case l.Lang != "":
		s += "@" + l.Lang
	case l.Datatype != "":
		s += "^^" + compileIRI(l.Datatype)
	}
	return s
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quote(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}
