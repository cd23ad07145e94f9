// Package engine answers natural-language questions by matching their parse
// trees against the question grammar and planning knowledge-base lookups.
//
// ARCHITECTURE:
//
// Query Flow:
// 1. Ask() appends a trailing "?" and hands the sentence to the Parser
// 2. The tree is matched against the find-entity grammar (MatchRules)
// 3. On a structural match the entity planner resolves property phrases
// into (prop, value, op) tuples and calls KnowledgeBase.FindEntity
// 4. If that grammar yields nothing, the subject-property grammar is tried
// and the subject planner calls KnowledgeBase.GetProperty
// 5. The answer is finalized with the query and tree text, counted and
// recorded
//
// The grammars are tried lazily: the subject-property grammar is only
// matched when the find-entity grammar produced no answer.
//
// MATCHING CONTRACT:
//
// Match() is positional: pattern children are matched against the first
// node children in order, extra trailing node children are ignored unless
// the pattern is anchored with "$". A failed attempt never leaks captures.
//
// MatchRules() commits to the first rule whose pattern structurally
// matches. If one of that rule's nested tables then fails, or the planner
// finds no answer, the table reports no match; later rules of the same
// table are not tried.
//
// FAILURE MODEL:
//
// Everything below the Engine API degrades to an empty answer: unknown
// operators, unresolvable names and transport failures are logged and the
// caller still gets an Answer. The only hard failures are an invalid
// output format (Query) and an unreachable parser (Ask).
package engine
