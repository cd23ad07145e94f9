package grammar

import (
	"fmt"
)

// Validation warning codes (W200-W299)
const (
	WarnUnreachableTable = "W201" // table not reachable from any entry point
	WarnShadowedRule     = "W202" // rule can never win because an earlier rule always matches first
	WarnNestedNotSubtree = "W203" // nested binding on a text capture
	WarnNestedUndeclared = "W204" // nested binding on a capture the pattern never declares
)

// Issue is one grammar lint finding.
type Issue struct {
	Code    string `json:"code"`
	Table   string `json:"table"`
	Rule    int    `json:"rule"` // Index into Table.Rules, -1 for table-level issues
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Rule < 0 {
		return fmt.Sprintf("[%s] %s: %s", i.Code, i.Table, i.Message)
	}
	return fmt.Sprintf("[%s] %s[%d]: %s", i.Code, i.Table, i.Rule, i.Message)
}

// ValidationResult collects every issue found; validation does not stop at
// the first one.
type ValidationResult struct {
	Issues []Issue `json:"issues"`
}

// OK reports whether no issues were found.
func (r ValidationResult) OK() bool {
	return len(r.Issues) == 0
}

// Validate lints a compiled grammar. Issues are ordered by table name, then
// rule index.
func Validate(g *Grammar) ValidationResult {
	var result ValidationResult

	reachable := reachableTables(g)
	for _, name := range g.TableNames() {
		table := g.Tables[name]
		if !reachable[table] {
			result.Issues = append(result.Issues, Issue{
				Code:    WarnUnreachableTable,
				Table:   name,
				Rule:    -1,
				Message: "table is not reachable from any entry point",
			})
		}
		result.Issues = append(result.Issues, validateTable(table)...)
	}
	return result
}

func validateTable(t *RuleTable) []Issue {
	var issues []Issue
	for i, rule := range t.Rules {
		for j := 0; j < i; j++ {
			if shadows(t.Rules[j].Pattern, rule.Pattern) {
				issues = append(issues, Issue{
					Code:    WarnShadowedRule,
					Table:   t.Name,
					Rule:    i,
					Message: fmt.Sprintf("shadowed by rule %d %s", j, t.Rules[j].Pattern),
				})
				break
			}
		}

		for _, name := range rule.NestedNames() {
			kind, ok := rule.Pattern.CaptureKind(name)
			switch {
			case !ok:
				issues = append(issues, Issue{
					Code:    WarnNestedUndeclared,
					Table:   t.Name,
					Rule:    i,
					Message: fmt.Sprintf("nested binding %q names no capture of the pattern", name),
				})
			case kind != KindSubtree:
				issues = append(issues, Issue{
					Code:    WarnNestedNotSubtree,
					Table:   t.Name,
					Rule:    i,
					Message: fmt.Sprintf("nested binding %q is on a -%s capture", name, kind),
				})
			}
		}
	}
	return issues
}

// shadows reports whether earlier matches every node later matches.
// Only identical patterns and childless catch-alls are detected.
func shadows(earlier, later *Pattern) bool {
	if earlier.String() == later.String() {
		return true
	}
	if len(earlier.Children) > 0 || len(earlier.Literals) > 0 || earlier.Anchored {
		return false
	}
	if earlier.Labels == nil {
		return true
	}
	if later.Labels == nil {
		return false
	}
	accepted := make(map[string]bool, len(earlier.Labels))
	for _, label := range earlier.Labels {
		accepted[label] = true
	}
	for _, label := range later.Labels {
		if !accepted[label] {
			return false
		}
	}
	return true
}

// reachableTables walks nested bindings from the entry points.
func reachableTables(g *Grammar) map[*RuleTable]bool {
	seen := make(map[*RuleTable]bool)
	var queue []*RuleTable
	for _, entry := range []*RuleTable{g.FindEntity, g.SubjectProp, g.PropTuple} {
		if entry != nil && !seen[entry] {
			seen[entry] = true
			queue = append(queue, entry)
		}
	}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		for _, rule := range t.Rules {
			targets := make([]*RuleTable, 0, len(rule.Nested))
			for _, name := range rule.NestedNames() {
				targets = append(targets, rule.Nested[name])
			}
			for _, next := range targets {
				if next != nil && !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return seen
}
