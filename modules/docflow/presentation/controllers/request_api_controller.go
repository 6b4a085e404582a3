package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/request"
	"github.com/adi-digital/docscriptum/modules/docflow/presentation/mappers"
	"github.com/adi-digital/docscriptum/modules/docflow/services"
	"github.com/adi-digital/docscriptum/pkg/application"
	"github.com/adi-digital/docscriptum/pkg/middleware"
)

type RequestAPIController struct {
	app           application.Application
	requests      *services.RequestService
	grds          *services.GRDService
	notifications *services.NotificationService
	basePath      string
}

func NewRequestAPIController(app application.Application) application.Controller {
	return &RequestAPIController{
		app:           app,
		requests:      app.Service(services.RequestService{}).(*services.RequestService),
		grds:          app.Service(services.GRDService{}).(*services.GRDService),
		notifications: app.Service(services.NotificationService{}).(*services.NotificationService),
		basePath:      "/api/v1/requests",
	}
}

func (c *RequestAPIController) Key() string {
	return c.basePath
}

func (c *RequestAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}/revision-check", c.RevisionCheck).Methods(http.MethodGet)
	// Transition, issue and notify manage their own locking transactions, so
	// they stay off the request-scoped transaction middleware.
	router.HandleFunc("/{id:[0-9]+}/transition", c.Transition).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/issue", c.Issue).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/notify-requester", c.NotifyRequester).Methods(http.MethodPost)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
}

func (c *RequestAPIController) List(w http.ResponseWriter, r *http.Request) {
	params := &request.FindParams{
		Q:      strings.TrimSpace(r.URL.Query().Get("q")),
		Status: request.Status(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))),
		Limit:  queryLimit(r),
		Offset: queryOffset(r),
	}
	if v := strings.TrimSpace(r.URL.Query().Get("project_id")); v != "" {
		if projectID, err := strconv.ParseInt(v, 10, 64); err == nil && projectID > 0 {
			params.ProjectID = projectID
		}
	}
	if params.Status != "" && !params.Status.IsValid() {
		writeAPIError(w, r, http.StatusBadRequest, "DOCFLOW_INVALID_STATUS", "unknown status filter")
		return
	}

	items, total, err := c.requests.GetPaginated(r.Context(), params)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "DOCFLOW_INTERNAL", "internal error")
		return
	}

	out := make([]any, 0, len(items))
	for _, req := range items {
		out = append(out, mappers.RequestToViewModel(req))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *RequestAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "DOCFLOW_INVALID_ID", "invalid id")
		return
	}

	found, err := c.requests.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "DOCFLOW_REQUEST_NOT_FOUND", "request not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "DOCFLOW_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.RequestToViewModel(found))
}

func (c *RequestAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto request.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "DOCFLOW_INVALID_JSON", "invalid json")
		return
	}

	if errs, ok := dto.Ok(); !ok {
		writeValidationError(w, r, "DOCFLOW_VALIDATION_FAILED", errs)
		return
	}

	created, err := c.requests.Create(r.Context(), &dto)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "DOCFLOW_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, mappers.RequestToViewModel(created))
}

type transitionDTO struct {
	Event string `json:"event"`
}

func (c *RequestAPIController) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "DOCFLOW_INVALID_ID", "invalid id")
		return
	}

	var dto transitionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "DOCFLOW_INVALID_JSON", "invalid json")
		return
	}

	event := request.Event(strings.ToLower(strings.TrimSpace(dto.Event)))
	if !event.CallerFacing() {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "DOCFLOW_INVALID_EVENT", "unknown lifecycle event")
		return
	}

	updated, err := c.requests.Transition(r.Context(), id, event)
	if err != nil {
		switch {
		case errors.Is(err, request.ErrNotFound):
			writeAPIError(w, r, http.StatusNotFound, "DOCFLOW_REQUEST_NOT_FOUND", "request not found")
		case errors.Is(err, request.ErrInvalidTransition):
			writeAPIError(w, r, http.StatusConflict, "DOCFLOW_INVALID_TRANSITION", "transition not allowed from current status")
		case errors.Is(err, request.ErrConflict):
			writeAPIError(w, r, http.StatusConflict, "DOCFLOW_CONFLICT", "request was modified concurrently, retry with a fresh read")
		default:
			writeAPIError(w, r, http.StatusInternalServerError, "DOCFLOW_INTERNAL", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, mappers.RequestToViewModel(updated))
}

type issueDTO struct {
	EmittedBy      string `json:"emitted_by"`
	DeliveryMethod string `json:"delivery_method"`
	Observations   string `json:"observations"`
}

func (c *RequestAPIController) Issue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "DOCFLOW_INVALID_ID", "invalid id")
		return
	}

	var dto issueDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "DOCFLOW_INVALID_JSON", "invalid json")
		return
	}
	if strings.TrimSpace(dto.EmittedBy) == "" {
		writeValidationError(w, r, "DOCFLOW_VALIDATION_FAILED", map[string]string{"EmittedBy": "required"})
		return
	}

	issued, err := c.grds.Issue(r.Context(), id, services.IssueParams{
		EmittedBy:      strings.TrimSpace(dto.EmittedBy),
		DeliveryMethod: strings.TrimSpace(dto.DeliveryMethod),
		Observations:   strings.TrimSpace(dto.Observations),
	})
	if err != nil {
		var mismatch *request.RevisionMismatchError
		switch {
		case errors.Is(err, request.ErrNotFound):
			writeAPIError(w, r, http.StatusNotFound, "DOCFLOW_REQUEST_NOT_FOUND", "request not found")
		case errors.Is(err, request.ErrInvalidState):
			writeAPIError(w, r, http.StatusConflict, "DOCFLOW_INVALID_STATE", "request is not awaiting issuance")
		case errors.Is(err, request.ErrEmptyDocumentSet):
			writeAPIError(w, r, http.StatusUnprocessableEntity, "DOCFLOW_EMPTY_DOCUMENT_SET", "request has no documents")
		case errors.As(err, &mismatch):
			writeAPIErrorDetails(w, r, http.StatusConflict, "DOCFLOW_REVISION_MISMATCH",
				"issuance blocked: documents are not at the expected revision",
				map[string]any{"failing_verdicts": mappers.VerdictsToViewModels(mismatch.Verdicts)})
		case errors.Is(err, request.ErrConflict):
			writeAPIError(w, r, http.StatusConflict, "DOCFLOW_CONFLICT", "request was modified concurrently, retry with a fresh read")
		default:
			writeAPIError(w, r, http.StatusInternalServerError, "DOCFLOW_INTERNAL", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, mappers.GRDToViewModel(issued))
}

func (c *RequestAPIController) RevisionCheck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "DOCFLOW_INVALID_ID", "invalid id")
		return
	}

	verdicts, err := c.grds.Check(r.Context(), id)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "DOCFLOW_REQUEST_NOT_FOUND", "request not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "DOCFLOW_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"verdicts":       mappers.VerdictsToViewModels(verdicts),
		"all_sequential": request.AllSequential(verdicts),
	})
}

type notifyDTO struct {
	Message string `json:"message"`
}

func (c *RequestAPIController) NotifyRequester(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "DOCFLOW_INVALID_ID", "invalid id")
		return
	}

	var dto notifyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "DOCFLOW_INVALID_JSON", "invalid json")
		return
	}

	updated, err := c.notifications.NotifyRequester(r.Context(), id, dto.Message)
	if err != nil {
		switch {
		case errors.Is(err, request.ErrNotFound):
			writeAPIError(w, r, http.StatusNotFound, "DOCFLOW_REQUEST_NOT_FOUND", "request not found")
		case errors.Is(err, request.ErrNoRequesterContact):
			writeAPIError(w, r, http.StatusUnprocessableEntity, "DOCFLOW_NO_REQUESTER_CONTACT", "request has no requester contact")
		case errors.Is(err, request.ErrInvalidTransition):
			writeAPIError(w, r, http.StatusConflict, "DOCFLOW_INVALID_TRANSITION", "request is not awaiting correction dispatch")
		case errors.Is(err, request.ErrDispatchFailed):
			writeAPIError(w, r, http.StatusBadGateway, "DOCFLOW_DISPATCH_FAILED", "notification dispatch failed, status unchanged")
		case errors.Is(err, request.ErrConflict):
			writeAPIError(w, r, http.StatusConflict, "DOCFLOW_CONFLICT", "request was modified concurrently, retry with a fresh read")
		default:
			writeAPIError(w, r, http.StatusInternalServerError, "DOCFLOW_INTERNAL", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sent":   true,
		"status": string(updated.Status()),
	})
}
