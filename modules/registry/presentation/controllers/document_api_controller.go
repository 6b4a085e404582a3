package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/document"
	"github.com/adi-digital/docscriptum/modules/registry/presentation/mappers"
	"github.com/adi-digital/docscriptum/modules/registry/services"
	"github.com/adi-digital/docscriptum/pkg/application"
	"github.com/adi-digital/docscriptum/pkg/middleware"
)

type DocumentAPIController struct {
	app       application.Application
	documents *services.DocumentService
	basePath  string
}

func NewDocumentAPIController(app application.Application) application.Controller {
	return &DocumentAPIController{
		app:       app,
		documents: app.Service(services.DocumentService{}).(*services.DocumentService),
		basePath:  "/api/v1/documents",
	}
}

func (c *DocumentAPIController) Key() string {
	return c.basePath
}

func (c *DocumentAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.GetByID).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id:[0-9]+}/advance-revision", c.AdvanceRevision).Methods(http.MethodPost)
}

func (c *DocumentAPIController) List(w http.ResponseWriter, r *http.Request) {
	params := &document.FindParams{
		Q:      strings.TrimSpace(r.URL.Query().Get("q")),
		Status: document.Status(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))),
		Limit:  queryLimit(r),
		Offset: queryOffset(r),
	}
	if v := strings.TrimSpace(r.URL.Query().Get("project_id")); v != "" {
		if projectID, err := strconv.ParseInt(v, 10, 64); err == nil && projectID > 0 {
			params.ProjectID = projectID
		}
	}

	items, total, err := c.documents.GetPaginated(r.Context(), params)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}

	out := make([]any, 0, len(items))
	for _, d := range items {
		out = append(out, mappers.DocumentToViewModel(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *DocumentAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_ID", "invalid id")
		return
	}

	found, err := c.documents.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "REGISTRY_DOCUMENT_NOT_FOUND", "document not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.DocumentToViewModel(found))
}

func (c *DocumentAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto document.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_JSON", "invalid json")
		return
	}

	if errs, ok := dto.Ok(); !ok {
		writeValidationError(w, r, "REGISTRY_VALIDATION_FAILED", errs)
		return
	}

	created, err := c.documents.Create(r.Context(), &dto)
	if err != nil {
		if errors.Is(err, document.ErrCodeTaken) {
			writeAPIError(w, r, http.StatusConflict, "REGISTRY_DOCUMENT_CODE_CONFLICT", "document code already exists in project")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, mappers.DocumentToViewModel(created))
}

func (c *DocumentAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_ID", "invalid id")
		return
	}

	var dto document.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationError(w, r, "REGISTRY_VALIDATION_FAILED", errs)
		return
	}

	existing, err := c.documents.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "REGISTRY_DOCUMENT_NOT_FOUND", "document not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}

	updated, err := c.documents.Update(r.Context(), dto.Apply(existing))
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.DocumentToViewModel(updated))
}

// AdvanceRevision moves the repository revision forward by one. Arbitrary
// jumps are not representable on purpose: the wire carries no target value.
func (c *DocumentAPIController) AdvanceRevision(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_ID", "invalid id")
		return
	}

	bumped, err := c.documents.AdvanceRevision(r.Context(), id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "REGISTRY_DOCUMENT_NOT_FOUND", "document not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.DocumentToViewModel(bumped))
}
