package request

import (
	"context"
	"time"
)

type FindParams struct {
	Q         string
	Status    Status
	ProjectID int64
	Limit     int
	Offset    int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Request, int64, error)
	GetByID(ctx context.Context, id int64) (Request, error)
	// GetByIDForUpdate reads the request under a row lock. Must be called
	// inside a transaction; the lock lives until that transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (Request, error)
	Create(ctx context.Context, r Request) (Request, error)
	// UpdateStatus writes the new status iff updated_at still equals
	// expectedUpdatedAt, returning ErrConflict otherwise.
	UpdateStatus(ctx context.Context, id int64, status Status, expectedUpdatedAt time.Time) (Request, error)
	Count(ctx context.Context) (int64, error)
}

// RevisionStore is the read-only view into the document registry's revision
// counters. One snapshot is fetched per validation pass, inside the issuing
// transaction when issuance is at stake.
type RevisionStore interface {
	Revisions(ctx context.Context, documentIDs []int64) (map[int64]int, error)
}
