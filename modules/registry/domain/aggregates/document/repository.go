package document

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrCodeTaken = errors.New("document code already exists in project")
)

type FindParams struct {
	Q         string
	ProjectID int64
	Status    Status
	Limit     int
	Offset    int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Document, int64, error)
	GetByID(ctx context.Context, id int64) (Document, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Document, error)
	Create(ctx context.Context, d Document) (Document, error)
	Update(ctx context.Context, d Document) (Document, error)
	// AdvanceRevision bumps the repository revision by exactly one. It is the
	// only revision mutation path; arbitrary jumps are not representable.
	AdvanceRevision(ctx context.Context, id int64) (Document, error)
}
