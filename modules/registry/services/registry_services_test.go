package services

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/document"
	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/organization"
	"github.com/adi-digital/docscriptum/pkg/eventbus"
)

func testBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

type mockOrganizationRepo struct {
	created organization.Organization
}

func (m *mockOrganizationRepo) GetPaginated(ctx context.Context, params *organization.FindParams) ([]organization.Organization, int64, error) {
	return nil, 0, nil
}

func (m *mockOrganizationRepo) GetByID(ctx context.Context, id int64) (organization.Organization, error) {
	return organization.Organization{}, organization.ErrNotFound
}

func (m *mockOrganizationRepo) Create(ctx context.Context, o organization.Organization) (organization.Organization, error) {
	m.created = o
	return organization.Hydrate(1, o.Name(), o.OrgType(), o.CNPJ(), o.ContactEmail(), o.Segment(), o.Status(), time.Now(), time.Now()), nil
}

func (m *mockOrganizationRepo) Update(ctx context.Context, o organization.Organization) (organization.Organization, error) {
	return o, nil
}

type mockDocumentRepo struct {
	byID     map[int64]document.Document
	advanced []int64
}

func (m *mockDocumentRepo) GetPaginated(ctx context.Context, params *document.FindParams) ([]document.Document, int64, error) {
	return nil, 0, nil
}

func (m *mockDocumentRepo) GetByID(ctx context.Context, id int64) (document.Document, error) {
	d, ok := m.byID[id]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}
	return d, nil
}

func (m *mockDocumentRepo) GetByIDs(ctx context.Context, ids []int64) ([]document.Document, error) {
	out := make([]document.Document, 0, len(ids))
	for _, id := range ids {
		if d, ok := m.byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDocumentRepo) Create(ctx context.Context, d document.Document) (document.Document, error) {
	return d, nil
}

func (m *mockDocumentRepo) Update(ctx context.Context, d document.Document) (document.Document, error) {
	return d, nil
}

func (m *mockDocumentRepo) AdvanceRevision(ctx context.Context, id int64) (document.Document, error) {
	current, ok := m.byID[id]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}
	bumped := document.Hydrate(
		current.ID(), current.ProjectID(), current.Code(), current.Title(),
		current.Revision()+1, current.Format(), current.Pages(), current.FileURL(),
		current.Status(), current.CreatedAt(), time.Now(),
	)
	m.byID[id] = bumped
	m.advanced = append(m.advanced, id)
	return bumped, nil
}

func TestOrganizationService_Create_NormalizesDTO(t *testing.T) {
	repo := &mockOrganizationRepo{}
	svc := NewOrganizationService(repo, testBus())

	created, err := svc.Create(context.Background(), &organization.CreateDTO{
		Name:         "  Acme Engenharia  ",
		OrgType:      "client",
		ContactEmail: " contact@acme.example ",
	})
	require.NoError(t, err)
	require.Equal(t, "Acme Engenharia", created.Name())
	require.Equal(t, organization.TypeClient, created.OrgType())
	require.Equal(t, organization.StatusActive, created.Status())
}

func TestOrganizationService_Create_MissingDTO(t *testing.T) {
	svc := NewOrganizationService(&mockOrganizationRepo{}, testBus())
	_, err := svc.Create(context.Background(), nil)
	require.Error(t, err)
}

func TestDocumentService_AdvanceRevision_BumpsByOne(t *testing.T) {
	repo := &mockDocumentRepo{byID: map[int64]document.Document{
		10: document.Hydrate(10, 1, "DOC-001", "Plan", 3, "PDF", 10, "", document.StatusReleased, time.Now(), time.Now()),
	}}
	svc := NewDocumentService(repo, testBus())

	bumped, err := svc.AdvanceRevision(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 4, bumped.Revision())
	require.Equal(t, []int64{10}, repo.advanced)

	_, err = svc.AdvanceRevision(context.Background(), 99)
	require.ErrorIs(t, err, document.ErrNotFound)
}
