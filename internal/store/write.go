package store

import (
	"context"
	"fmt"

	"github.com/roach88/nlquery/internal/ir"
)

// Record appends an answered question to the log.
// It implements engine.Recorder.
//
// The question is the answer's finalized Query text. A nil answer is an
// invalid argument: the engine always records a finalized answer.
func (s *Store) Record(ctx context.Context, grammarName string, ans *ir.Answer) error {
	if ans == nil {
		return fmt.Errorf("record: nil answer")
	}

	params, err := marshalParams(ans.Params)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}

	qtype := ""
	if ans.Params != nil {
		qtype = ans.Params.QuestionType()
	}

	id := s.ids.Generate()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO queries
		(id, fingerprint, sentence, grammar, qtype, params, sparql, plain, empty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		ir.Fingerprint(ans.Query),
		ans.Query,
		grammarName,
		qtype,
		params,
		ans.SPARQL,
		ans.Plain(),
		ans.IsEmpty(),
	)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}

	s.logger.DebugContext(ctx, "query recorded", "id", id, "grammar", grammarName)
	return nil
}
