package services

import (
	"context"
	"errors"
	"strings"

	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/document"
	"github.com/adi-digital/docscriptum/pkg/eventbus"
)

type DocumentService struct {
	repo      document.Repository
	publisher eventbus.EventBus
}

func NewDocumentService(repo document.Repository, publisher eventbus.EventBus) *DocumentService {
	return &DocumentService{repo: repo, publisher: publisher}
}

func (s *DocumentService) GetPaginated(ctx context.Context, params *document.FindParams) ([]document.Document, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *DocumentService) GetByID(ctx context.Context, id int64) (document.Document, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DocumentService) GetByIDs(ctx context.Context, ids []int64) ([]document.Document, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *DocumentService) Create(ctx context.Context, dto *document.CreateDTO) (document.Document, error) {
	if dto == nil {
		return document.Document{}, errors.New("missing dto")
	}
	dto.Normalize()
	created, err := s.repo.Create(ctx, dto.ToEntity())
	if err != nil {
		return document.Document{}, err
	}
	s.publisher.Publish("document.created", created)
	return created, nil
}

func (s *DocumentService) Update(ctx context.Context, d document.Document) (document.Document, error) {
	updated, err := s.repo.Update(ctx, d)
	if err != nil {
		return document.Document{}, err
	}
	s.publisher.Publish("document.updated", updated)
	return updated, nil
}

// AdvanceRevision moves the repository revision forward by one. It is a
// registry-side operation, driven by the advance-revision endpoint when a new
// revision of the file lands; transmittal issuance only reads the revision.
func (s *DocumentService) AdvanceRevision(ctx context.Context, id int64) (document.Document, error) {
	updated, err := s.repo.AdvanceRevision(ctx, id)
	if err != nil {
		return document.Document{}, err
	}
	s.publisher.Publish("document.revision_advanced", updated)
	return updated, nil
}
