// Package harness runs question scenarios end to end.
//
// A scenario pairs questions with their canned parse trees and the Wikidata
// fixtures needed to answer them. The harness wires the real engine, grammar
// and knowledge adapter against an httptest Wikidata and an in-memory query
// log, asks every question, and checks the answers.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: ceo_of_apple
//	description: "Role holder at a point in time"
//	today: 2026-10-14
//	entities:
//	  - { kind: item, name: CEO, id: Q484876 }
//	  - { kind: item, name: apple inc, id: Q312 }
//	sparql:
//	  - contains: "pq:P108 wd:Q312"
//	    rows:
//	      - valLabel: { type: literal, value: Steve Jobs }
//	questions:
//	  - ask: "Who was CEO of Apple Inc in 1980?"
//	    tree: "(ROOT (SBARQ ...))"
//	    expect:
//	      grammar: find_entity
//	      plain: Steve Jobs
//	      params: { qtype: who, inst: CEO, props: [[null, apple inc, of], [null, "1980", in]] }
//	assertions:
//	  - type: searches
//	    values: ["item:CEO", "item:apple inc"]
//
// # Assertion Types
//
//   - searches: the exact entity searches issued, in order ("kind:name")
//   - query_count: the number of SPARQL queries issued
//   - asked: how many times the query log recorded a question (by fingerprint)
//
// # Deterministic Testing
//
// Every run uses a fixed clock (the scenario's today, default 2026-10-14),
// sequential query log IDs and a fresh fake Wikidata, so generated SPARQL
// is byte-stable and can be compared against golden files with
// RunWithGolden.
package harness
