package ir

// Answer is the uniform result envelope of a question.
//
// Planners and the knowledge adapter create answers; the engine finalizes
// them with the query and tree text before returning. An Answer with nil
// Data is an empty answer: the question matched nothing or the knowledge
// source had no data.
type Answer struct {
	Query  string // Query sentence after preprocessing
	Tree   string // Rendered parse tree
	Data   Value  // Result data (nil when empty)
	Params Params // Canonical planner parameters (nil when no grammar matched)
	SPARQL string // Generated query text (empty when none was issued)
}

// NewAnswer creates an answer carrying data and the query text that produced it.
func NewAnswer(data Value, sparql string) *Answer {
	return &Answer{Data: data, SPARQL: sparql}
}

// Empty creates an answer with no data.
func Empty() *Answer {
	return &Answer{}
}

// WithParams returns a copy of the answer carrying params.
// A nil receiver yields an empty answer carrying params.
func (a *Answer) WithParams(p Params) *Answer {
	out := Empty()
	if a != nil {
		*out = *a
	}
	out.Params = p
	return out
}

// Finalize attaches the query sentence and rendered tree.
// Called exactly once, by the engine, before the answer leaves it.
func (a *Answer) Finalize(query, tree string) {
	a.Query = query
	a.Tree = tree
}

// IsEmpty reports whether the answer carries no data.
func (a *Answer) IsEmpty() bool {
	return a == nil || IsEmpty(a.Data)
}

// Plain renders the data as a human-readable string.
// Lists are joined with ", " in result order; empty answers render as "".
func (a *Answer) Plain() string {
	if a == nil {
		return ""
	}
	return Render(a.Data)
}

// RawAnswer is the structured rendering of an Answer.
type RawAnswer struct {
	Plain  string `json:"plain"`
	Query  string `json:"query"`
	Params Params `json:"params"`
	Tree   string `json:"tree"`
	SPARQL string `json:"sparql_query,omitempty"`
	Data   Value  `json:"data"`
}

// Raw converts the answer to its structured form.
// Plain is always derived from Data, so Raw().Plain == Plain().
func (a *Answer) Raw() RawAnswer {
	if a == nil {
		return RawAnswer{}
	}
	return RawAnswer{
		Plain:  a.Plain(),
		Query:  a.Query,
		Params: a.Params,
		Tree:   a.Tree,
		SPARQL: a.SPARQL,
		Data:   a.Data,
	}
}
