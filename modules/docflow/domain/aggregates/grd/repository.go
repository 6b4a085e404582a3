package grd

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("grd not found")
	// ErrNumberTaken signals a unique violation on number or protocol; the
	// issuer retries with freshly allocated identifiers.
	ErrNumberTaken = errors.New("grd number or protocol already exists")
)

type FindParams struct {
	Q         string
	RequestID int64
	ProjectID int64
	Limit     int
	Offset    int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]GRD, int64, error)
	GetByID(ctx context.Context, id int64) (GRD, error)
	GetByProtocol(ctx context.Context, protocol string) (GRD, error)
	Create(ctx context.Context, g GRD) (GRD, error)
	Count(ctx context.Context) (int64, error)
}
