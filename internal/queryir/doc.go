// Package queryir provides the query intermediate representation (IR) the
// knowledge adapter builds before any SPARQL text exists.
//
// ARCHITECTURE:
//
// The adapter never concatenates query strings. It assembles a Select out
// of graph patterns and hands it to a backend compiler:
//
//	[planner params] → [wikidata adapter] → [Query IR] → [querysparql] → SPARQL text
//
// The IR covers the fragment of SPARQL 1.1 the question shapes need:
//   - Select with an explicit projection or a single COUNT(*) aggregate
//   - Basic graph patterns (Triple)
//   - Union of pattern groups, Optional groups
//   - Filter over comparisons, conjunctions and language tests
//   - The Wikidata label service
//
// Everything else (subqueries, property paths, ORDER BY, LIMIT) is outside
// the fragment.
//
// SEALED INTERFACES:
//
// Query, Pattern, Term and Expr are sealed with marker methods. Only types
// in this package implement them, so backends can switch exhaustively:
//
//	switch p := pattern.(type) {
//	case Triple:
//	case Union:
//	case Optional:
//	case Filter:
//	case LabelService:
//	}
//
// Marker methods have value receivers, so both T and *T satisfy each
// interface; backends accept both forms.
//
// TERMS:
//
//	Var("val")                       ?val
//	IRI("wd:Q76")                    wd:Q76 (prefixed name, written verbatim)
//	IRI("http://wikiba.se/x")        <http://wikiba.se/x>
//	Literal{Value: "en"}             "en"
//	Literal{Value: v, Datatype: d}   "v"^^d
//	Number("100000")                 100000
//
// BINDING:
//
// A variable is bound when it occurs in any position of a Triple. The label
// service additionally binds ?xLabel for every bound ?x. Validate reports
// projected variables that nothing binds.
package queryir
