package services

import (
	"context"
	"errors"
	"strings"

	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/project"
	"github.com/adi-digital/docscriptum/pkg/eventbus"
)

type ProjectService struct {
	repo      project.Repository
	publisher eventbus.EventBus
}

func NewProjectService(repo project.Repository, publisher eventbus.EventBus) *ProjectService {
	return &ProjectService{repo: repo, publisher: publisher}
}

func (s *ProjectService) GetPaginated(ctx context.Context, params *project.FindParams) ([]project.Project, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *ProjectService) GetByID(ctx context.Context, id int64) (project.Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, dto *project.CreateDTO) (project.Project, error) {
	if dto == nil {
		return project.Project{}, errors.New("missing dto")
	}
	dto.Normalize()
	created, err := s.repo.Create(ctx, dto.ToEntity())
	if err != nil {
		return project.Project{}, err
	}
	s.publisher.Publish("project.created", created)
	return created, nil
}

func (s *ProjectService) Update(ctx context.Context, p project.Project) (project.Project, error) {
	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return project.Project{}, err
	}
	s.publisher.Publish("project.updated", updated)
	return updated, nil
}
