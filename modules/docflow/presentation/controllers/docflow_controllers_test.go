package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/grd"
	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/request"
	"github.com/adi-digital/docscriptum/modules/docflow/services"
	"github.com/adi-digital/docscriptum/pkg/application"
	"github.com/adi-digital/docscriptum/pkg/eventbus"
)

type fakeRequestRepo struct {
	byID map[int64]request.Request
}

func (f *fakeRequestRepo) GetPaginated(ctx context.Context, params *request.FindParams) ([]request.Request, int64, error) {
	out := make([]request.Request, 0, len(f.byID))
	for _, r := range f.byID {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id int64) (request.Request, error) {
	r, ok := f.byID[id]
	if !ok {
		return request.Request{}, request.ErrNotFound
	}
	return r, nil
}

func (f *fakeRequestRepo) GetByIDForUpdate(ctx context.Context, id int64) (request.Request, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRequestRepo) Create(ctx context.Context, r request.Request) (request.Request, error) {
	return r, nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id int64, status request.Status, expectedUpdatedAt time.Time) (request.Request, error) {
	return request.Request{}, request.ErrConflict
}

func (f *fakeRequestRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

type fakeRevisionStore struct {
	revisions map[int64]int
}

func (f *fakeRevisionStore) Revisions(ctx context.Context, documentIDs []int64) (map[int64]int, error) {
	return f.revisions, nil
}

type fakeGRDRepo struct {
	byID map[int64]grd.GRD
}

func (f *fakeGRDRepo) GetPaginated(ctx context.Context, params *grd.FindParams) ([]grd.GRD, int64, error) {
	out := make([]grd.GRD, 0, len(f.byID))
	for _, g := range f.byID {
		out = append(out, g)
	}
	return out, int64(len(out)), nil
}

func (f *fakeGRDRepo) GetByID(ctx context.Context, id int64) (grd.GRD, error) {
	g, ok := f.byID[id]
	if !ok {
		return grd.GRD{}, grd.ErrNotFound
	}
	return g, nil
}

func (f *fakeGRDRepo) GetByProtocol(ctx context.Context, protocol string) (grd.GRD, error) {
	for _, g := range f.byID {
		if g.Protocol() == protocol {
			return g, nil
		}
	}
	return grd.GRD{}, grd.ErrNotFound
}

func (f *fakeGRDRepo) Create(ctx context.Context, g grd.GRD) (grd.GRD, error) {
	return g, nil
}

func (f *fakeGRDRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

type noopSender struct{}

func (noopSender) Send(ctx context.Context, to, subject, body string) error { return nil }

func quietBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func newTestRouter(t *testing.T, requests *fakeRequestRepo, revisions *fakeRevisionStore, grds *fakeGRDRepo) *mux.Router {
	t.Helper()

	bus := quietBus()
	app := application.New(&application.ApplicationOptions{
		EventBus: bus,
		Logger:   logrus.New(),
	})
	app.RegisterServices(
		services.NewRequestService(requests, bus),
		services.NewGRDService(grds, requests, revisions, bus),
		services.NewNotificationService(requests, revisions, noopSender{}, bus, time.Second),
	)

	router := mux.NewRouter()
	NewRequestAPIController(app).Register(router)
	NewGRDAPIController(app).Register(router)
	return router
}

func waitingRequest(id int64, docs []request.DocumentRef) request.Request {
	now := time.Now()
	return request.Hydrate(
		id, "REQ-2026-A1B2C3",
		1, 1, 2,
		"CONSTRUCTION", "", "", "",
		"Ana", "ana@example.com",
		docs, request.StatusWaitingAdm,
		now, now,
	)
}

func doRequest(t *testing.T, router *mux.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestAPIController_GetByID(t *testing.T) {
	docs := []request.DocumentRef{
		{DocumentID: 10, Code: "DOC-001", Title: "Plan", UploadedRevision: 3},
	}
	router := newTestRouter(t,
		&fakeRequestRepo{byID: map[int64]request.Request{7: waitingRequest(7, docs)}},
		&fakeRevisionStore{revisions: map[int64]int{10: 2}},
		&fakeGRDRepo{},
	)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/requests/7", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "REQ-2026-A1B2C3", body["number"])
	require.Equal(t, "WAITING_ADM", body["status"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/requests/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "DOCFLOW_REQUEST_NOT_FOUND")
}

func TestRequestAPIController_Transition_RejectsUnknownEvent(t *testing.T) {
	router := newTestRouter(t,
		&fakeRequestRepo{byID: map[int64]request.Request{}},
		&fakeRevisionStore{},
		&fakeGRDRepo{},
	)

	for _, event := range []string{"complete", "request_correction", "teleport", ""} {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/requests/7/transition", `{"event":"`+event+`"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, "event %q must be rejected before the service runs", event)
		require.Contains(t, rec.Body.String(), "DOCFLOW_INVALID_EVENT")
	}
}

func TestRequestAPIController_RevisionCheck(t *testing.T) {
	docs := []request.DocumentRef{
		{DocumentID: 10, Code: "DOC-001", Title: "Plan", UploadedRevision: 3},
		{DocumentID: 11, Code: "DOC-002", Title: "Memo", UploadedRevision: 5},
	}
	router := newTestRouter(t,
		&fakeRequestRepo{byID: map[int64]request.Request{7: waitingRequest(7, docs)}},
		&fakeRevisionStore{revisions: map[int64]int{10: 2, 11: 2}},
		&fakeGRDRepo{},
	)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/requests/7/revision-check", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Verdicts []struct {
			Code             string `json:"code"`
			ExpectedRevision int    `json:"expected_revision"`
			Sequential       bool   `json:"sequential"`
			Delta            int    `json:"delta"`
		} `json:"verdicts"`
		AllSequential bool `json:"all_sequential"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.AllSequential)
	require.Len(t, body.Verdicts, 2)
	require.Equal(t, "DOC-001", body.Verdicts[0].Code)
	require.True(t, body.Verdicts[0].Sequential)
	require.Equal(t, "DOC-002", body.Verdicts[1].Code)
	require.False(t, body.Verdicts[1].Sequential)
	require.Equal(t, 3, body.Verdicts[1].ExpectedRevision)
	require.Equal(t, 2, body.Verdicts[1].Delta)
}

func TestGRDAPIController_Reads(t *testing.T) {
	issued := grd.Hydrate(
		3, "GRD-2026-000001", "PROT-2026-000001",
		7, 1, 1, 2,
		"CONSTRUCTION", "COURIER", "", "admin",
		time.Now(), grd.StatusIssued,
		[]grd.Item{{DocumentID: 10, Code: "DOC-001", Title: "Plan", Revision: 3}},
	)
	router := newTestRouter(t,
		&fakeRequestRepo{byID: map[int64]request.Request{}},
		&fakeRevisionStore{},
		&fakeGRDRepo{byID: map[int64]grd.GRD{3: issued}},
	)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/grds/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "GRD-2026-000001")

	rec = doRequest(t, router, http.MethodGet, "/api/v1/grds/protocol/PROT-2026-000001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"protocol":"PROT-2026-000001"`)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/grds/protocol/PROT-2026-999999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "DOCFLOW_GRD_NOT_FOUND")
}
