package organization

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("organization not found")
)

type FindParams struct {
	Q       string
	OrgType Type
	Limit   int
	Offset  int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Organization, int64, error)
	GetByID(ctx context.Context, id int64) (Organization, error)
	Create(ctx context.Context, o Organization) (Organization, error)
	Update(ctx context.Context, o Organization) (Organization, error)
}
