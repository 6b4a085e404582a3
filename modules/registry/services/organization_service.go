package services

import (
	"context"
	"errors"
	"strings"

	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/organization"
	"github.com/adi-digital/docscriptum/pkg/eventbus"
)

type OrganizationService struct {
	repo      organization.Repository
	publisher eventbus.EventBus
}

func NewOrganizationService(repo organization.Repository, publisher eventbus.EventBus) *OrganizationService {
	return &OrganizationService{repo: repo, publisher: publisher}
}

func (s *OrganizationService) GetPaginated(ctx context.Context, params *organization.FindParams) ([]organization.Organization, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *OrganizationService) GetByID(ctx context.Context, id int64) (organization.Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OrganizationService) Create(ctx context.Context, dto *organization.CreateDTO) (organization.Organization, error) {
	if dto == nil {
		return organization.Organization{}, errors.New("missing dto")
	}
	dto.Normalize()
	created, err := s.repo.Create(ctx, dto.ToEntity())
	if err != nil {
		return organization.Organization{}, err
	}
	s.publisher.Publish("organization.created", created)
	return created, nil
}

func (s *OrganizationService) Update(ctx context.Context, o organization.Organization) (organization.Organization, error) {
	updated, err := s.repo.Update(ctx, o)
	if err != nil {
		return organization.Organization{}, err
	}
	s.publisher.Publish("organization.updated", updated)
	return updated, nil
}
