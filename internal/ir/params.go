package ir

import (
	"encoding/json"
	"fmt"
)

// Operators produced by the tuple resolver.
const (
	OpGreater = ">"
	OpLess    = "<"
	OpIn      = "in"
	OpBy      = "by"
	OpOf      = "of"
	OpFrom    = "from"
)

// Params is a sealed interface for planner-specific query parameters.
// Only SubjectParams and EntityParams implement this.
type Params interface {
	paramsNode() // Sealed - only these types implement it

	// QuestionType returns the interrogative that selected the query shape.
	QuestionType() string
}

// SubjectParams are the canonical parameters of a subject-property query.
// Prop is empty when the subject's description was requested.
type SubjectParams struct {
	QType   string `json:"qtype"`
	Subject string `json:"subject"`
	Prop    string `json:"prop"`
}

func (SubjectParams) paramsNode() {}

func (p SubjectParams) QuestionType() string { return p.QType }

// MarshalJSON renders an absent property as null.
func (p SubjectParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"qtype":   p.QType,
		"subject": p.Subject,
		"prop":    nullable(p.Prop),
	})
}

// EntityParams are the canonical parameters of an entity-enumeration query.
type EntityParams struct {
	QType string      `json:"qtype"`
	Inst  string      `json:"inst"`
	Props []PropTuple `json:"props"`
}

func (EntityParams) paramsNode() {}

func (p EntityParams) QuestionType() string { return p.QType }

// MarshalJSON always emits props as an array, never null.
func (p EntityParams) MarshalJSON() ([]byte, error) {
	props := p.Props
	if props == nil {
		props = []PropTuple{}
	}
	return json.Marshal(map[string]any{
		"qtype": p.QType,
		"inst":  p.Inst,
		"props": props,
	})
}

// PropTuple is one (property, value, operator) filter condition,
// e.g. (population, 1000000, >).
// Prop is empty when the relation must be inferred from the value.
type PropTuple struct {
	Prop  string
	Value string
	Op    string
}

// T is a shorthand constructor used heavily in tests.
func T(prop, value, op string) PropTuple {
	return PropTuple{Prop: prop, Value: value, Op: op}
}

// String renders the tuple as "(prop, value, op)".
func (t PropTuple) String() string {
	prop := t.Prop
	if prop == "" {
		prop = "?"
	}
	return fmt.Sprintf("(%s, %s, %s)", prop, t.Value, t.Op)
}

// MarshalJSON encodes the tuple as [prop|null, value, op].
func (t PropTuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{nullable(t.Prop), t.Value, t.Op})
}

// UnmarshalJSON decodes the [prop|null, value, op] array form.
func (t *PropTuple) UnmarshalJSON(data []byte) error {
	var raw []*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("prop tuple: expected 3 elements, got %d", len(raw))
	}
	get := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	*t = PropTuple{Prop: get(raw[0]), Value: get(raw[1]), Op: get(raw[2])}
	return nil
}

// nullable maps the empty string to JSON null.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
