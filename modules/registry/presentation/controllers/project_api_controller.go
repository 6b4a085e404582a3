package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/project"
	"github.com/adi-digital/docscriptum/modules/registry/presentation/mappers"
	"github.com/adi-digital/docscriptum/modules/registry/services"
	"github.com/adi-digital/docscriptum/pkg/application"
	"github.com/adi-digital/docscriptum/pkg/middleware"
)

type ProjectAPIController struct {
	app      application.Application
	projects *services.ProjectService
	basePath string
}

func NewProjectAPIController(app application.Application) application.Controller {
	return &ProjectAPIController{
		app:      app,
		projects: app.Service(services.ProjectService{}).(*services.ProjectService),
		basePath: "/api/v1/projects",
	}
}

func (c *ProjectAPIController) Key() string {
	return c.basePath
}

func (c *ProjectAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.GetByID).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
}

func (c *ProjectAPIController) List(w http.ResponseWriter, r *http.Request) {
	params := &project.FindParams{
		Q:      strings.TrimSpace(r.URL.Query().Get("q")),
		Status: project.Status(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))),
		Limit:  queryLimit(r),
		Offset: queryOffset(r),
	}
	if v := strings.TrimSpace(r.URL.Query().Get("client_id")); v != "" {
		if clientID, err := strconv.ParseInt(v, 10, 64); err == nil && clientID > 0 {
			params.ClientID = clientID
		}
	}

	items, total, err := c.projects.GetPaginated(r.Context(), params)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}

	out := make([]any, 0, len(items))
	for _, p := range items {
		out = append(out, mappers.ProjectToViewModel(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *ProjectAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_ID", "invalid id")
		return
	}

	found, err := c.projects.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "REGISTRY_PROJECT_NOT_FOUND", "project not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.ProjectToViewModel(found))
}

func (c *ProjectAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto project.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_JSON", "invalid json")
		return
	}

	if errs, ok := dto.Ok(); !ok {
		writeValidationError(w, r, "REGISTRY_VALIDATION_FAILED", errs)
		return
	}

	created, err := c.projects.Create(r.Context(), &dto)
	if err != nil {
		if errors.Is(err, project.ErrCodeTaken) {
			writeAPIError(w, r, http.StatusConflict, "REGISTRY_PROJECT_CODE_CONFLICT", "project code already exists")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, mappers.ProjectToViewModel(created))
}

func (c *ProjectAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_ID", "invalid id")
		return
	}

	var dto project.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationError(w, r, "REGISTRY_VALIDATION_FAILED", errs)
		return
	}

	existing, err := c.projects.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "REGISTRY_PROJECT_NOT_FOUND", "project not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}

	updated, err := c.projects.Update(r.Context(), dto.Apply(existing))
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.ProjectToViewModel(updated))
}
