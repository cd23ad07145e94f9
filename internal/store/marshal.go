package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/nlquery/internal/ir"
)

// marshalParams converts planner params to JSON TEXT for storage.
// Nil params (no grammar matched) are stored as NULL.
func marshalParams(p ir.Params) (sql.NullString, error) {
	if p == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal params: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalParams returns stored params as raw JSON; NULL becomes nil.
func unmarshalParams(s sql.NullString) (json.RawMessage, error) {
	if !s.Valid {
		return nil, nil
	}
	if !json.Valid([]byte(s.String)) {
		return nil, fmt.Errorf("unmarshal params: invalid JSON %q", s.String)
	}
	return json.RawMessage(s.String), nil
}
