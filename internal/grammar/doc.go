// Package grammar compiles the tree-pattern grammar that maps parse trees
// of questions onto query shapes.
//
// ARCHITECTURE:
//
// The grammar is authored declaratively in CUE (grammar.cue, embedded) and
// compiled once at startup through the CUE Go SDK:
//
//	[grammar.cue] → [CUE value] → [RuleTable graph] → engine.MatchRules
//
// PATTERN SYNTAX:
//
//	pattern   := "(" head child* ["$"] ")"
//	child     := pattern | head
//	head      := labels [":" name ["-" kind]] ["=" literal ("|" literal)*]
//	labels    := label ("/" label)* | "."
//
// Examples:
//
//	( NP ( NP:subject-o ) ( VP:prop-o ) )        subject + property
//	( WHNP ( WDT:qtype-o=what ) ( NN:prop3-o ) ) pinned function word
//	( NP ( NP ( NNP ) ( POS ) ) ( NN ) $ )       no further siblings
//
// Capture kinds (the suffix after "-"):
//
//	(none)  subtree   the matched node itself, for nested tables
//	o       text      object words, lower-cased, DT and POS dropped
//	O       singular  object words, case kept, flagged for singularization
//	r       raw       every word, lower-cased
//	R       raw-cased every word, case kept
//
// RULE TABLES:
//
// A RuleTable is an ordered list of rules. Order is priority: the first rule
// whose pattern structurally matches wins. A rule may bind one of its
// subtree captures to another table (its nested binding). Tables refer to
// each other by name in CUE and are late-bound after every table has been
// declared, so a table may refer to itself.
//
// Patterns and tables are immutable once compiled and are safe to share
// across goroutines without locking.
package grammar
