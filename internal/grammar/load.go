package grammar

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed grammar.cue
var defaultSource []byte

// LoadDefault compiles the embedded question grammar.
func LoadDefault() (*Grammar, error) {
	return CompileSource("grammar.cue", defaultSource)
}

// Load compiles a grammar file from disk.
func Load(path string) (*Grammar, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar %s: %w", path, err)
	}
	return CompileSource(path, src)
}

// CompileSource compiles CUE grammar source. filename is used in error
// positions only.
func CompileSource(filename string, src []byte) (*Grammar, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileValue(v)
}

// CompileValue builds the RuleTable graph from an evaluated CUE value.
//
// The value must have the shape:
//
//	entry:  { find_entity: string, subject_prop: string, prop_tuple: string }
//	tables: [name=string]: [...{ pattern: string, nested?: [capture=string]: string, doc?: string }]
//
// Every table is declared before any rule is compiled, so nested references
// resolve regardless of declaration order and may point back at their own
// table.
func CompileValue(v cue.Value) (*Grammar, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	tablesVal := v.LookupPath(cue.ParsePath("tables"))
	if !tablesVal.Exists() {
		return nil, &CompileError{
			Field:   "tables",
			Message: "tables are required",
			Pos:     v.Pos(),
		}
	}

	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	g := &Grammar{Tables: make(map[string]*RuleTable)}
	var (
		order  []string
		values = make(map[string]cue.Value)
	)
	for iter.Next() {
		name := iter.Label()
		g.Tables[name] = &RuleTable{Name: name}
		values[name] = iter.Value()
		order = append(order, name)
	}

	for _, name := range order {
		rules, err := compileRules(g, name, values[name])
		if err != nil {
			return nil, err
		}
		g.Tables[name].Rules = rules
	}

	if g.FindEntity, err = entryTable(g, v, "find_entity"); err != nil {
		return nil, err
	}
	if g.SubjectProp, err = entryTable(g, v, "subject_prop"); err != nil {
		return nil, err
	}
	if g.PropTuple, err = entryTable(g, v, "prop_tuple"); err != nil {
		return nil, err
	}
	return g, nil
}

func compileRules(g *Grammar, table string, v cue.Value) ([]Rule, error) {
	list, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []Rule
	for i := 0; list.Next(); i++ {
		rule, err := compileRule(g, fmt.Sprintf("tables.%s[%d]", table, i), list.Value())
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if len(rules) == 0 {
		return nil, &CompileError{
			Field:   "tables." + table,
			Message: "table must have at least one rule",
			Pos:     v.Pos(),
		}
	}
	return rules, nil
}

func compileRule(g *Grammar, field string, v cue.Value) (Rule, error) {
	patternVal := v.LookupPath(cue.ParsePath("pattern"))
	if !patternVal.Exists() {
		return Rule{}, &CompileError{
			Field:   field + ".pattern",
			Message: "pattern is required",
			Pos:     v.Pos(),
		}
	}
	src, err := patternVal.String()
	if err != nil {
		return Rule{}, formatCUEError(err)
	}
	p, err := Compile(src)
	if err != nil {
		return Rule{}, &CompileError{
			Field:   field + ".pattern",
			Message: err.Error(),
			Pos:     patternVal.Pos(),
		}
	}

	rule := Rule{Pattern: p}

	if docVal := v.LookupPath(cue.ParsePath("doc")); docVal.Exists() {
		if rule.Doc, err = docVal.String(); err != nil {
			return Rule{}, formatCUEError(err)
		}
	}

	nestedVal := v.LookupPath(cue.ParsePath("nested"))
	if !nestedVal.Exists() {
		return rule, nil
	}
	iter, err := nestedVal.Fields()
	if err != nil {
		return Rule{}, formatCUEError(err)
	}
	rule.Nested = make(map[string]*RuleTable)
	for iter.Next() {
		capture := iter.Label()
		refVal := iter.Value()
		nestedField := field + ".nested." + capture

		ref, err := refVal.String()
		if err != nil {
			return Rule{}, formatCUEError(err)
		}
		kind, ok := p.CaptureKind(capture)
		if !ok {
			return Rule{}, &CompileError{
				Field:   nestedField,
				Message: fmt.Sprintf("pattern declares no capture %q", capture),
				Pos:     refVal.Pos(),
			}
		}
		if kind != KindSubtree {
			return Rule{}, &CompileError{
				Field:   nestedField,
				Message: fmt.Sprintf("capture %q is -%s; only subtree captures can bind a table", capture, kind),
				Pos:     refVal.Pos(),
			}
		}
		target, ok := g.Tables[ref]
		if !ok {
			return Rule{}, &CompileError{
				Field:   nestedField,
				Message: fmt.Sprintf("unknown table %q", ref),
				Pos:     refVal.Pos(),
			}
		}
		rule.Nested[capture] = target
	}
	return rule, nil
}

func entryTable(g *Grammar, v cue.Value, key string) (*RuleTable, error) {
	field := "entry." + key
	entryVal := v.LookupPath(cue.ParsePath(field))
	if !entryVal.Exists() {
		return nil, &CompileError{
			Field:   field,
			Message: "entry point is required",
			Pos:     v.Pos(),
		}
	}
	name, err := entryVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	t, ok := g.Tables[name]
	if !ok {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unknown table %q", name),
			Pos:     entryVal.Pos(),
		}
	}
	return t, nil
}

// CompileError represents a grammar compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError keeps the first CUE error that carries a position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
