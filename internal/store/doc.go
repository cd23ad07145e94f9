// Package store provides SQLite-backed durable storage for the query log.
//
// Every answered question is appended as one row of the queries table:
//   - The question as asked (after preprocessing) and its fingerprint
//   - The grammar that produced the answer ("find_entity", "subject_prop", "none")
//   - The canonical planner parameters as JSON
//   - The generated SPARQL text and the plain answer
//
// # Ordering
//
// All ordering uses the seq INTEGER (logical clock), never timestamps.
// Every read includes ORDER BY seq, so listings are identical across runs.
//
// # Identity
//
// Row IDs come from an IDGenerator (UUIDv7 by default). Fingerprints are
// computed by ir.Fingerprint, so "Who is Obama?" and "who is  obama" count
// as the same question.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
