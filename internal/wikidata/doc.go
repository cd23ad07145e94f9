// Package wikidata answers planner queries from Wikidata.
//
// ARCHITECTURE:
//
// Client talks to the two public endpoints: the MediaWiki action API
// (wbsearchentities, for name → ID resolution and descriptions) and the
// SPARQL query service. KnowledgeBase implements engine.KnowledgeBase on
// top of it:
//
//	GetProperty(qtype, subject, prop)
//	  prop ""                  → entity description
//	  age                      → date of birth (P569), whole years elapsed
//	  born                     → P19 (where) or P569 (when)
//	  height                   → P2044 ∪ P2048
//	  nickname/known as/...    → aliases (altLabel ∪ label)
//	  anything else            → property resolved by name
//
//	FindEntity(qtype, inst, props)
//	  base: holders of position inst (P39, humans) ∪ instances of inst (P31)
//	  one clause per (prop, value, op) tuple
//
// Every query is assembled as a queryir.Select and rendered with
// querysparql; the rendered text travels with the answer.
//
// Only the first search hit is used. Nothing is retried.
package wikidata
