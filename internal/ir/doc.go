// Package ir provides the answer model shared by every nlquery package.
//
// This package contains value and envelope types only. All other internal
// packages import ir; ir imports nothing internal. This keeps the answer
// model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Value is a sealed interface: Text, Number, Int, Date and List only.
//     Planners and the knowledge adapter never hand back bare Go values.
//   - Params is sealed as well: SubjectParams or EntityParams.
//   - PropTuple order is clause order. Slices of tuples are never sorted.
//   - An Answer is immutable after construction except for Finalize, which
//     the engine calls exactly once to attach the query and tree text.
//   - All JSON tags use snake_case and match the raw response shape
//     (plain, query, params, tree, sparql_query, data).
package ir
