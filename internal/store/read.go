package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Entry is one row of the query log.
type Entry struct {
	Seq         int64           `json:"seq"`
	ID          string          `json:"id"`
	Fingerprint string          `json:"fingerprint"`
	Sentence    string          `json:"sentence"`
	Grammar     string          `json:"grammar"`
	QType       string          `json:"qtype"`
	Params      json.RawMessage `json:"params"` // nil when no grammar matched
	SPARQL      string          `json:"sparql_query,omitempty"`
	Plain       string          `json:"plain"`
	Empty       bool            `json:"empty"`
}

// Recent returns the latest limit entries, oldest first.
// Returns an empty slice (not nil) when the log is empty.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("recent: limit must be positive, got %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, fingerprint, sentence, grammar, qtype, params, sparql, plain, empty
		FROM (
			SELECT * FROM queries ORDER BY seq DESC LIMIT ?
		)
		ORDER BY seq ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ByFingerprint returns every entry for a question fingerprint, oldest first.
func (s *Store) ByFingerprint(ctx context.Context, fingerprint string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, fingerprint, sentence, grammar, qtype, params, sparql, plain, empty
		FROM queries
		WHERE fingerprint = ?
		ORDER BY seq ASC
	`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("query fingerprint: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// CountByFingerprint returns how many times a question was asked.
func (s *Store) CountByFingerprint(ctx context.Context, fingerprint string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM queries WHERE fingerprint = ?`, fingerprint,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count fingerprint: %w", err)
	}
	return n, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queries: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var params sql.NullString
	err := rows.Scan(
		&e.Seq,
		&e.ID,
		&e.Fingerprint,
		&e.Sentence,
		&e.Grammar,
		&e.QType,
		&params,
		&e.SPARQL,
		&e.Plain,
		&e.Empty,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("scan query: %w", err)
	}

	e.Params, err = unmarshalParams(params)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	return e, nil
}
