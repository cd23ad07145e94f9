package engine

import (
	"github.com/roach88/nlquery/internal/grammar"
	"github.com/roach88/nlquery/internal/parsetree"
)

// MatchRules evaluates a rule table against node.
//
// Rules are tried in table order. The first rule whose pattern matches is
// committed to: its nested bindings are resolved in sorted capture-name
// order, each by matching the captured subtree against the bound table,
// and the nested captures are merged over the rule's own. If any nested
// table fails, MatchRules returns false without trying later rules.
func MatchRules(node *parsetree.Node, table *grammar.RuleTable) (Captures, bool) {
	if node == nil || table == nil {
		return nil, false
	}

	for _, rule := range table.Rules {
		caps, ok := Match(node, rule.Pattern)
		if !ok {
			continue
		}

		for _, name := range rule.NestedNames() {
			inner, ok := MatchRules(caps.Tree(name), rule.Nested[name])
			if !ok {
				return nil, false
			}
			for k, v := range inner {
				caps[k] = v
			}
		}
		return caps, true
	}
	return nil, false
}
