package project

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("project not found")
	ErrCodeTaken = errors.New("project code already exists")
)

type FindParams struct {
	Q        string
	ClientID int64
	Status   Status
	Limit    int
	Offset   int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Project, int64, error)
	GetByID(ctx context.Context, id int64) (Project, error)
	Create(ctx context.Context, p Project) (Project, error)
	Update(ctx context.Context, p Project) (Project, error)
}
