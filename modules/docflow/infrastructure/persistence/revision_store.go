package persistence

import (
	"context"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/request"
	"github.com/adi-digital/docscriptum/pkg/composables"
)

// PgRevisionStore reads revision counters straight off the registry's
// documents table. Read-only: docflow never advances a revision itself.
type PgRevisionStore struct{}

func NewPgRevisionStore() request.RevisionStore {
	return &PgRevisionStore{}
}

func (s *PgRevisionStore) Revisions(ctx context.Context, documentIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(documentIDs))
	if len(documentIDs) == 0 {
		return out, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, revision
		FROM documents
		WHERE id = ANY($1)
	`, documentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var revision int
		if err := rows.Scan(&id, &revision); err != nil {
			return nil, err
		}
		out[id] = revision
	}
	// Ids missing from the result stay absent; the validator treats them as
	// revision 0.
	return out, rows.Err()
}
