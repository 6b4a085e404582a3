package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/organization"
	"github.com/adi-digital/docscriptum/modules/registry/presentation/mappers"
	"github.com/adi-digital/docscriptum/modules/registry/services"
	"github.com/adi-digital/docscriptum/pkg/application"
	"github.com/adi-digital/docscriptum/pkg/middleware"
)

type OrganizationAPIController struct {
	app           application.Application
	organizations *services.OrganizationService
	basePath      string
}

func NewOrganizationAPIController(app application.Application) application.Controller {
	return &OrganizationAPIController{
		app:           app,
		organizations: app.Service(services.OrganizationService{}).(*services.OrganizationService),
		basePath:      "/api/v1/organizations",
	}
}

func (c *OrganizationAPIController) Key() string {
	return c.basePath
}

func (c *OrganizationAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.GetByID).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
}

func (c *OrganizationAPIController) List(w http.ResponseWriter, r *http.Request) {
	params := &organization.FindParams{
		Q:       strings.TrimSpace(r.URL.Query().Get("q")),
		OrgType: organization.Type(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("org_type")))),
		Limit:   queryLimit(r),
		Offset:  queryOffset(r),
	}

	items, total, err := c.organizations.GetPaginated(r.Context(), params)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}

	out := make([]any, 0, len(items))
	for _, o := range items {
		out = append(out, mappers.OrganizationToViewModel(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *OrganizationAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_ID", "invalid id")
		return
	}

	found, err := c.organizations.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "REGISTRY_ORGANIZATION_NOT_FOUND", "organization not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.OrganizationToViewModel(found))
}

func (c *OrganizationAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto organization.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_JSON", "invalid json")
		return
	}

	if errs, ok := dto.Ok(); !ok {
		writeValidationError(w, r, "REGISTRY_VALIDATION_FAILED", errs)
		return
	}

	created, err := c.organizations.Create(r.Context(), &dto)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, mappers.OrganizationToViewModel(created))
}

func (c *OrganizationAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_ID", "invalid id")
		return
	}

	var dto organization.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationError(w, r, "REGISTRY_VALIDATION_FAILED", errs)
		return
	}

	existing, err := c.organizations.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "REGISTRY_ORGANIZATION_NOT_FOUND", "organization not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}

	updated, err := c.organizations.Update(r.Context(), dto.Apply(existing))
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.OrganizationToViewModel(updated))
}
