package engine

import (
	"context"
	"strings"
	"unicode"

	"github.com/roach88/nlquery/internal/grammar"
	"github.com/roach88/nlquery/internal/ir"
	"github.com/roach88/nlquery/internal/parsetree"
)

// SubjectQuery is the typed input of the subject-property planner.
type SubjectQuery struct {
	QType   string // who, what, where, when, how
	Subject string // Noun phrase the property is asked of
	Action  string // Main verb (is, was, married)
	JJ      string // Adjective of "how tall/old" questions
	Prop    string
	Prop2   string // Second half of a compound property ("birth day")
	Prop3   string // Noun of "what country ..." questions
}

func subjectQueryFrom(c Captures) SubjectQuery {
	return SubjectQuery{
		QType:   c.Text("qtype"),
		Subject: c.Text("subject"),
		Action:  c.Text("action"),
		JJ:      c.Text("jj"),
		Prop:    c.Text("prop"),
		Prop2:   c.Text("prop2"),
		Prop3:   c.Text("prop3"),
	}
}

// Property applies the normalization rules, in order:
// 1. "old" → age
// 2. "tall"/"high" → height
// 3. prop2 extends prop into a compound name
// 4. prop3 fills an absent prop
// 5. a verb other than is/was names the relation itself
//
// An empty result asks for the subject's description.
func (q SubjectQuery) Property() string {
	prop := q.Prop
	switch q.JJ {
	case "old":
		prop = "age"
	case "tall", "high":
		prop = "height"
	}
	if q.Prop2 != "" {
		prop = strings.TrimSpace(prop + " " + q.Prop2)
	}
	if q.Prop3 != "" && prop == "" {
		prop = q.Prop3
	}
	if prop == "" && q.Action != "is" && q.Action != "was" {
		prop = q.Action
	}
	return prop
}

// EntityQuery is the typed input of the entity planner.
type EntityQuery struct {
	QType        string
	Inst         string
	InstSingular bool            // Inst was captured for singularization
	PropMatch    *parsetree.Node // First property phrase, nil when absent
	PropMatch2   *parsetree.Node // Second property phrase, nil when absent
}

func entityQueryFrom(c Captures) EntityQuery {
	return EntityQuery{
		QType:        c.Text("qtype"),
		Inst:         c.Text("inst"),
		InstSingular: c["inst"].Kind == grammar.KindSingular,
		PropMatch:    c.Tree("prop_match_t"),
		PropMatch2:   c.Tree("prop_match2_t"),
	}
}

// planSubject answers a subject-property question. It always returns an
// answer carrying the normalized parameters.
func (e *Engine) planSubject(ctx context.Context, c Captures) *ir.Answer {
	q := subjectQueryFrom(c)
	prop := q.Property()

	e.logger.InfoContext(ctx, "subject query",
		"qtype", q.QType,
		"subject", q.Subject,
		"prop", prop,
	)

	ans, err := e.kb.GetProperty(ctx, q.QType, q.Subject, prop)
	if err != nil {
		e.logger.WarnContext(ctx, "property lookup failed",
			"subject", q.Subject,
			"prop", prop,
			"error", err,
		)
		ans = nil
	}
	return ans.WithParams(ir.SubjectParams{
		QType:   q.QType,
		Subject: q.Subject,
		Prop:    prop,
	})
}

// planEntity answers an entity-enumeration question. It returns nil when a
// present property phrase cannot be resolved; otherwise it always returns
// an answer carrying the parameters.
func (e *Engine) planEntity(ctx context.Context, c Captures) *ir.Answer {
	q := entityQueryFrom(c)

	var props []ir.PropTuple
	for _, phrase := range []*parsetree.Node{q.PropMatch, q.PropMatch2} {
		if phrase == nil {
			continue
		}
		tuples, ok := e.resolveTuples(ctx, phrase)
		if !ok {
			return nil
		}
		props = append(props, tuples...)
	}

	inst := q.Inst
	if q.InstSingular && !isAcronym(inst) {
		inst = e.singularize(inst)
	}

	e.logger.InfoContext(ctx, "entity query",
		"qtype", q.QType,
		"inst", inst,
		"props", len(props),
	)

	ans, err := e.kb.FindEntity(ctx, q.QType, inst, props)
	if err != nil {
		e.logger.WarnContext(ctx, "entity lookup failed",
			"inst", inst,
			"error", err,
		)
		ans = nil
	}
	return ans.WithParams(ir.EntityParams{
		QType: q.QType,
		Inst:  inst,
		Props: props,
	})
}

// isAcronym reports whether s has letters and all of them are upper case
// (POTUS, USA).
func isAcronym(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			hasLetter = true
		}
	}
	return hasLetter
}
