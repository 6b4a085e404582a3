package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/grd"
	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/request"
	"github.com/adi-digital/docscriptum/pkg/composables"
	"github.com/adi-digital/docscriptum/pkg/eventbus"
)

// stubTx satisfies the transaction presence check; the mocks never touch SQL.
type stubTx struct {
	pgx.Tx
}

func testCtx() context.Context {
	return composables.WithTx(context.Background(), stubTx{})
}

func testBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

type mockRequestRepo struct {
	mu        sync.Mutex
	byID      map[int64]request.Request
	updateErr error
	updates   int
}

func newMockRequestRepo(reqs ...request.Request) *mockRequestRepo {
	m := &mockRequestRepo{byID: map[int64]request.Request{}}
	for _, r := range reqs {
		m.byID[r.ID()] = r
	}
	return m
}

func (m *mockRequestRepo) GetPaginated(ctx context.Context, params *request.FindParams) ([]request.Request, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]request.Request, 0, len(m.byID))
	for _, r := range m.byID {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id int64) (request.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return request.Request{}, request.ErrNotFound
	}
	return r, nil
}

func (m *mockRequestRepo) GetByIDForUpdate(ctx context.Context, id int64) (request.Request, error) {
	return m.GetByID(ctx, id)
}

func (m *mockRequestRepo) Create(ctx context.Context, r request.Request) (request.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hydrated := request.Hydrate(
		int64(len(m.byID)+1), r.Number(),
		r.ProjectID(), r.OriginID(), r.DestinationID(),
		r.Purpose(), r.Description(), r.Justification(), r.SpecialInstructions(),
		r.RequesterName(), r.RequesterContact(),
		r.Documents(), r.Status(), time.Now(), time.Now(),
	)
	m.byID[hydrated.ID()] = hydrated
	return hydrated, nil
}

func (m *mockRequestRepo) UpdateStatus(ctx context.Context, id int64, status request.Status, expectedUpdatedAt time.Time) (request.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return request.Request{}, m.updateErr
	}
	current, ok := m.byID[id]
	if !ok {
		return request.Request{}, request.ErrNotFound
	}
	if !current.UpdatedAt().Equal(expectedUpdatedAt) {
		return request.Request{}, request.ErrConflict
	}
	updated := request.Hydrate(
		current.ID(), current.Number(),
		current.ProjectID(), current.OriginID(), current.DestinationID(),
		current.Purpose(), current.Description(), current.Justification(), current.SpecialInstructions(),
		current.RequesterName(), current.RequesterContact(),
		current.Documents(), status, current.CreatedAt(), current.UpdatedAt().Add(time.Millisecond),
	)
	m.byID[id] = updated
	m.updates++
	return updated, nil
}

func (m *mockRequestRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func (m *mockRequestRepo) status(id int64) request.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].Status()
}

type mockRevisionStore struct {
	revisions map[int64]int
	err       error
}

func (m *mockRevisionStore) Revisions(ctx context.Context, documentIDs []int64) (map[int64]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[int64]int, len(documentIDs))
	for _, id := range documentIDs {
		if rev, ok := m.revisions[id]; ok {
			out[id] = rev
		}
	}
	return out, nil
}

type mockGRDRepo struct {
	mu         sync.Mutex
	records    []grd.GRD
	failTakens int
}

func (m *mockGRDRepo) GetPaginated(ctx context.Context, params *grd.FindParams) ([]grd.GRD, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records, int64(len(m.records)), nil
}

func (m *mockGRDRepo) GetByID(ctx context.Context, id int64) (grd.GRD, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.records {
		if g.ID() == id {
			return g, nil
		}
	}
	return grd.GRD{}, grd.ErrNotFound
}

func (m *mockGRDRepo) GetByProtocol(ctx context.Context, protocol string) (grd.GRD, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.records {
		if g.Protocol() == protocol {
			return g, nil
		}
	}
	return grd.GRD{}, grd.ErrNotFound
}

func (m *mockGRDRepo) Create(ctx context.Context, g grd.GRD) (grd.GRD, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTakens > 0 {
		m.failTakens--
		return grd.GRD{}, grd.ErrNumberTaken
	}
	hydrated := grd.Hydrate(
		int64(len(m.records)+1), g.Number(), g.Protocol(),
		g.RequestID(), g.ProjectID(), g.OriginID(), g.DestinationID(),
		g.Purpose(), g.DeliveryMethod(), g.Observations(), g.EmittedBy(),
		g.EmittedAt(), g.Status(), g.Items(),
	)
	m.records = append(m.records, hydrated)
	return hydrated, nil
}

func (m *mockGRDRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.records)), nil
}

type mockSender struct {
	mu       sync.Mutex
	err      error
	messages []string
	lastTo   string
}

func (m *mockSender) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, body)
	m.lastTo = to
	return nil
}

func waitingAdmRequest(id int64, docs ...request.DocumentRef) request.Request {
	return request.Hydrate(
		id, "REQ-2026-A1B2C3", 1, 2, 3,
		"Construction release", "", "", "",
		"Maria Souza", "maria@example.com",
		docs, request.StatusWaitingAdm,
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	)
}

// Scenario A: one document at repository revision 1, uploaded revision 2.
func TestGRDService_Issue_SequentialSetCompletesRequest(t *testing.T) {
	repo := newMockRequestRepo(waitingAdmRequest(1,
		request.DocumentRef{DocumentID: 10, Code: "DOC-001", Title: "Plan", UploadedRevision: 2},
	))
	grds := &mockGRDRepo{}
	store := &mockRevisionStore{revisions: map[int64]int{10: 1}}
	svc := NewGRDService(grds, repo, store, testBus())

	issued, err := svc.Issue(testCtx(), 1, IssueParams{EmittedBy: "admin", DeliveryMethod: "email"})
	require.NoError(t, err)
	require.Equal(t, request.StatusCompleted, repo.status(1))
	require.Equal(t, grd.StatusIssued, issued.Status())
	require.Regexp(t, `^GRD-\d{4}-\d{6}$`, issued.Number())
	require.Regexp(t, `^PROT-\d{4}-\d{6}$`, issued.Protocol())
	require.Len(t, issued.Items(), 1)
	require.Equal(t, 2, issued.Items()[0].Revision)
	require.Equal(t, int64(1), issued.RequestID())
}

// Scenario B: uploaded revision 3 skips one; issuance reports the mismatch
// and leaves the status alone.
func TestGRDService_Issue_MismatchLeavesStatusUntouched(t *testing.T) {
	repo := newMockRequestRepo(waitingAdmRequest(1,
		request.DocumentRef{DocumentID: 10, Code: "DOC-001", Title: "Plan", UploadedRevision: 3},
	))
	grds := &mockGRDRepo{}
	store := &mockRevisionStore{revisions: map[int64]int{10: 1}}
	svc := NewGRDService(grds, repo, store, testBus())

	_, err := svc.Issue(testCtx(), 1, IssueParams{EmittedBy: "admin"})
	var mismatch *request.RevisionMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Len(t, mismatch.Verdicts, 1)
	require.Equal(t, 1, mismatch.Verdicts[0].Delta())
	require.Equal(t, request.StatusWaitingAdm, repo.status(1))
	require.Empty(t, grds.records)
}

// Re-running issue with unchanged documents yields the same verdict set.
func TestGRDService_Issue_MismatchIsDeterministic(t *testing.T) {
	repo := newMockRequestRepo(waitingAdmRequest(1,
		request.DocumentRef{DocumentID: 10, Code: "DOC-001", UploadedRevision: 3},
	))
	store := &mockRevisionStore{revisions: map[int64]int{10: 1}}
	svc := NewGRDService(&mockGRDRepo{}, repo, store, testBus())

	var first *request.RevisionMismatchError
	_, err := svc.Issue(testCtx(), 1, IssueParams{EmittedBy: "admin"})
	require.ErrorAs(t, err, &first)

	for i := 0; i < 5; i++ {
		var again *request.RevisionMismatchError
		_, err := svc.Issue(testCtx(), 1, IssueParams{EmittedBy: "admin"})
		require.ErrorAs(t, err, &again)
		require.Equal(t, first.Verdicts, again.Verdicts)
	}
}

// Scenario C: one passing and one failing document block issuance entirely.
func TestGRDService_Issue_NoPartialCompletion(t *testing.T) {
	repo := newMockRequestRepo(waitingAdmRequest(1,
		request.DocumentRef{DocumentID: 10, Code: "DOC-001", UploadedRevision: 2},
		request.DocumentRef{DocumentID: 11, Code: "DOC-002", UploadedRevision: 4},
	))
	store := &mockRevisionStore{revisions: map[int64]int{10: 1, 11: 4}}
	grds := &mockGRDRepo{}
	svc := NewGRDService(grds, repo, store, testBus())

	_, err := svc.Issue(testCtx(), 1, IssueParams{EmittedBy: "admin"})
	var mismatch *request.RevisionMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Len(t, mismatch.Verdicts, 1)
	require.Equal(t, "DOC-002", mismatch.Verdicts[0].Code)
	require.Equal(t, request.StatusWaitingAdm, repo.status(1))
	require.Empty(t, grds.records)
}

func TestGRDService_Issue_PreconditionOrder(t *testing.T) {
	// Not WAITING_ADM wins over everything else.
	pending := request.Hydrate(1, "REQ-2026-ABC123", 1, 2, 3, "p", "", "", "", "Jo", "",
		nil, request.StatusPending, time.Now(), time.Now())
	svc := NewGRDService(&mockGRDRepo{}, newMockRequestRepo(pending), &mockRevisionStore{}, testBus())
	_, err := svc.Issue(testCtx(), 1, IssueParams{EmittedBy: "admin"})
	require.ErrorIs(t, err, request.ErrInvalidState)

	// WAITING_ADM with no documents.
	svc = NewGRDService(&mockGRDRepo{}, newMockRequestRepo(waitingAdmRequest(1)), &mockRevisionStore{}, testBus())
	_, err = svc.Issue(testCtx(), 1, IssueParams{EmittedBy: "admin"})
	require.ErrorIs(t, err, request.ErrEmptyDocumentSet)
}

// Scenario D: a lost CAS race surfaces as Conflict and produces no record.
func TestGRDService_Issue_ConflictProducesNoRecord(t *testing.T) {
	repo := newMockRequestRepo(waitingAdmRequest(1,
		request.DocumentRef{DocumentID: 10, Code: "DOC-001", UploadedRevision: 2},
	))
	repo.updateErr = request.ErrConflict
	grds := &mockGRDRepo{}
	store := &mockRevisionStore{revisions: map[int64]int{10: 1}}
	svc := NewGRDService(grds, repo, store, testBus())

	_, err := svc.Issue(testCtx(), 1, IssueParams{EmittedBy: "admin"})
	require.ErrorIs(t, err, request.ErrConflict)
	require.Empty(t, grds.records)
}

func TestGRDService_Issue_RetriesTakenNumbers(t *testing.T) {
	repo := newMockRequestRepo(waitingAdmRequest(1,
		request.DocumentRef{DocumentID: 10, Code: "DOC-001", UploadedRevision: 2},
	))
	grds := &mockGRDRepo{failTakens: 2}
	store := &mockRevisionStore{revisions: map[int64]int{10: 1}}
	svc := NewGRDService(grds, repo, store, testBus())

	issued, err := svc.Issue(testCtx(), 1, IssueParams{EmittedBy: "admin"})
	require.NoError(t, err)
	// two collisions absorbed, third sequence value used
	require.Contains(t, issued.Number(), "-000003")
}

func TestGRDService_Check_HasNoSideEffects(t *testing.T) {
	repo := newMockRequestRepo(waitingAdmRequest(1,
		request.DocumentRef{DocumentID: 10, Code: "DOC-001", UploadedRevision: 3},
	))
	store := &mockRevisionStore{revisions: map[int64]int{10: 1}}
	svc := NewGRDService(&mockGRDRepo{}, repo, store, testBus())

	verdicts, err := svc.Check(testCtx(), 1)
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	require.False(t, verdicts[0].IsSequential())
	require.Equal(t, request.StatusWaitingAdm, repo.status(1))
	require.Zero(t, repo.updates)
}

func TestRequestService_Create_AssignsNumberAndPending(t *testing.T) {
	repo := newMockRequestRepo()
	svc := NewRequestService(repo, testBus())

	created, err := svc.Create(testCtx(), &request.CreateDTO{
		ProjectID: 1, OriginID: 2, DestinationID: 3,
		Purpose:       "Construction release",
		RequesterName: "Maria",
		Documents: []request.DocumentRefDTO{
			{DocumentID: 10, Code: "DOC-001", Title: "Plan", UploadedRevision: 1},
		},
	})
	require.NoError(t, err)
	require.Regexp(t, `^REQ-\d{4}-[0-9A-F]{6}$`, created.Number())
	require.Equal(t, request.StatusPending, created.Status())
}

func TestRequestService_Transition_AppliesTable(t *testing.T) {
	pending := request.Hydrate(1, "REQ-2026-ABC123", 1, 2, 3, "p", "", "", "", "Jo", "",
		nil, request.StatusPending, time.Now(), time.Now())
	repo := newMockRequestRepo(pending)
	svc := NewRequestService(repo, testBus())

	opened, err := svc.Transition(testCtx(), 1, request.EventOpen)
	require.NoError(t, err)
	require.Equal(t, request.StatusInProgress, opened.Status())

	approved, err := svc.Transition(testCtx(), 1, request.EventApprove)
	require.NoError(t, err)
	require.Equal(t, request.StatusWaitingAdm, approved.Status())

	_, err = svc.Transition(testCtx(), 1, request.EventOpen)
	require.ErrorIs(t, err, request.ErrInvalidTransition)
	require.Equal(t, request.StatusWaitingAdm, repo.status(1))
}

func TestRequestService_Transition_NotFound(t *testing.T) {
	svc := NewRequestService(newMockRequestRepo(), testBus())
	_, err := svc.Transition(testCtx(), 99, request.EventOpen)
	require.ErrorIs(t, err, request.ErrNotFound)
}

func TestNotificationService_SuccessMovesToWaitingClient(t *testing.T) {
	repo := newMockRequestRepo(waitingAdmRequest(1,
		request.DocumentRef{DocumentID: 10, Code: "DOC-001", Title: "Plan", UploadedRevision: 3},
	))
	store := &mockRevisionStore{revisions: map[int64]int{10: 1}}
	sender := &mockSender{}
	svc := NewNotificationService(repo, store, sender, testBus(), time.Second)

	updated, err := svc.NotifyRequester(testCtx(), 1, "")
	require.NoError(t, err)
	require.Equal(t, request.StatusWaitingClient, updated.Status())
	require.Equal(t, "maria@example.com", sender.lastTo)
	require.Len(t, sender.messages, 1)
	// Composed message names the document and both revisions.
	require.Contains(t, sender.messages[0], "DOC-001")
	require.Contains(t, sender.messages[0], "expected revision 2")
	require.Contains(t, sender.messages[0], "submitted revision 3")
	require.Contains(t, sender.messages[0], "REQ-2026-A1B2C3")
}

func TestNotificationService_DispatchFailureLeavesStatus(t *testing.T) {
	repo := newMockRequestRepo(waitingAdmRequest(1,
		request.DocumentRef{DocumentID: 10, Code: "DOC-001", UploadedRevision: 3},
	))
	store := &mockRevisionStore{revisions: map[int64]int{10: 1}}
	sender := &mockSender{err: errors.New("smtp: connection refused")}
	svc := NewNotificationService(repo, store, sender, testBus(), time.Second)

	_, err := svc.NotifyRequester(testCtx(), 1, "please fix")
	require.ErrorIs(t, err, request.ErrDispatchFailed)
	require.Equal(t, request.StatusWaitingAdm, repo.status(1))
	require.Zero(t, repo.updates)
}

func TestNotificationService_MissingContactRefusesBeforeDispatch(t *testing.T) {
	noContact := request.Hydrate(1, "REQ-2026-ABC123", 1, 2, 3, "p", "", "", "", "Jo", "",
		[]request.DocumentRef{{DocumentID: 10, UploadedRevision: 3}},
		request.StatusWaitingAdm, time.Now(), time.Now())
	repo := newMockRequestRepo(noContact)
	sender := &mockSender{}
	svc := NewNotificationService(repo, &mockRevisionStore{}, sender, testBus(), time.Second)

	_, err := svc.NotifyRequester(testCtx(), 1, "msg")
	require.ErrorIs(t, err, request.ErrNoRequesterContact)
	require.Empty(t, sender.messages)
}

func TestNotificationService_WrongStatusRefusesBeforeDispatch(t *testing.T) {
	pending := request.Hydrate(1, "REQ-2026-ABC123", 1, 2, 3, "p", "", "", "", "Jo", "jo@example.com",
		nil, request.StatusPending, time.Now(), time.Now())
	repo := newMockRequestRepo(pending)
	sender := &mockSender{}
	svc := NewNotificationService(repo, &mockRevisionStore{}, sender, testBus(), time.Second)

	_, err := svc.NotifyRequester(testCtx(), 1, "msg")
	require.ErrorIs(t, err, request.ErrInvalidTransition)
	require.Empty(t, sender.messages)
}

func TestNotificationService_CustomMessageSkipsComposition(t *testing.T) {
	repo := newMockRequestRepo(waitingAdmRequest(1,
		request.DocumentRef{DocumentID: 10, Code: "DOC-001", UploadedRevision: 3},
	))
	// Revision store errors would fail composition; a custom message must not
	// need it.
	store := &mockRevisionStore{err: errors.New("store down")}
	sender := &mockSender{}
	svc := NewNotificationService(repo, store, sender, testBus(), time.Second)

	updated, err := svc.NotifyRequester(testCtx(), 1, "please resubmit DOC-001 at revision 2")
	require.NoError(t, err)
	require.Equal(t, request.StatusWaitingClient, updated.Status())
	require.Equal(t, []string{"please resubmit DOC-001 at revision 2"}, sender.messages)
}
