package grammar

import (
	"fmt"
	"sort"
)

// Rule pairs a pattern with the nested tables its subtree captures are
// resolved against.
type Rule struct {
	Pattern *Pattern

	// Nested maps a subtree capture name to the table it is matched with.
	// The nested table's captures are merged into the rule's captures.
	Nested map[string]*RuleTable

	// Doc is free-form authoring commentary ("Who is the wife of X").
	Doc string
}

// NewRule compiles src and checks every nested binding names a subtree
// capture declared by the pattern.
func NewRule(src string, nested map[string]*RuleTable) (Rule, error) {
	p, err := Compile(src)
	if err != nil {
		return Rule{}, err
	}
	for name, table := range nested {
		kind, ok := p.CaptureKind(name)
		if !ok {
			return Rule{}, fmt.Errorf("nested binding %q: pattern declares no such capture", name)
		}
		if kind != KindSubtree {
			return Rule{}, fmt.Errorf("nested binding %q: capture must be a subtree, got -%s", name, kind)
		}
		if table == nil {
			return Rule{}, fmt.Errorf("nested binding %q: nil table", name)
		}
	}
	return Rule{Pattern: p, Nested: nested}, nil
}

// MustRule is NewRule for rule literals known to be valid.
func MustRule(src string, nested map[string]*RuleTable) Rule {
	r, err := NewRule(src, nested)
	if err != nil {
		panic(err)
	}
	return r
}

// NestedNames returns the nested binding names in sorted order, the order
// in which they are resolved.
func (r Rule) NestedNames() []string {
	names := make([]string, 0, len(r.Nested))
	for name := range r.Nested {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RuleTable is an ordered, named list of rules.
type RuleTable struct {
	Name  string
	Rules []Rule
}

// NewTable creates a table from rules in priority order.
func NewTable(name string, rules ...Rule) *RuleTable {
	return &RuleTable{Name: name, Rules: rules}
}

// Grammar is a compiled set of rule tables plus the three entry points the
// planners start from.
type Grammar struct {
	// Tables indexes every table by name.
	Tables map[string]*RuleTable

	// FindEntity classifies "which/who/how many X ..." questions.
	FindEntity *RuleTable

	// SubjectProp classifies "what is the P of S" questions.
	SubjectProp *RuleTable

	// PropTuple decomposes property phrases into (prop, value, op) tuples.
	PropTuple *RuleTable
}

// Table returns the named table.
func (g *Grammar) Table(name string) (*RuleTable, bool) {
	t, ok := g.Tables[name]
	return t, ok
}

// TableNames lists table names in sorted order.
func (g *Grammar) TableNames() []string {
	names := make([]string, 0, len(g.Tables))
	for name := range g.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RuleCount returns the total number of rules across all tables.
func (g *Grammar) RuleCount() int {
	n := 0
	for _, t := range g.Tables {
		n += len(t.Rules)
	}
	return n
}
