package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/grd"
	"github.com/adi-digital/docscriptum/modules/docflow/presentation/mappers"
	"github.com/adi-digital/docscriptum/modules/docflow/services"
	"github.com/adi-digital/docscriptum/pkg/application"
)

// GRDAPIController is read-only: records are born in the issuance
// transaction and never change afterwards.
type GRDAPIController struct {
	app      application.Application
	grds     *services.GRDService
	basePath string
}

func NewGRDAPIController(app application.Application) application.Controller {
	return &GRDAPIController{
		app:      app,
		grds:     app.Service(services.GRDService{}).(*services.GRDService),
		basePath: "/api/v1/grds",
	}
}

func (c *GRDAPIController) Key() string {
	return c.basePath
}

func (c *GRDAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/protocol/{protocol}", c.GetByProtocol).Methods(http.MethodGet)
}

func (c *GRDAPIController) List(w http.ResponseWriter, r *http.Request) {
	params := &grd.FindParams{
		Q:      strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  queryLimit(r),
		Offset: queryOffset(r),
	}
	if v := strings.TrimSpace(r.URL.Query().Get("request_id")); v != "" {
		if requestID, err := strconv.ParseInt(v, 10, 64); err == nil && requestID > 0 {
			params.RequestID = requestID
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("project_id")); v != "" {
		if projectID, err := strconv.ParseInt(v, 10, 64); err == nil && projectID > 0 {
			params.ProjectID = projectID
		}
	}

	items, total, err := c.grds.GetPaginated(r.Context(), params)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "DOCFLOW_INTERNAL", "internal error")
		return
	}

	out := make([]any, 0, len(items))
	for _, g := range items {
		out = append(out, mappers.GRDToViewModel(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *GRDAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r))
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "DOCFLOW_INVALID_ID", "invalid id")
		return
	}

	found, err := c.grds.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, grd.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "DOCFLOW_GRD_NOT_FOUND", "grd not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "DOCFLOW_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.GRDToViewModel(found))
}

func (c *GRDAPIController) GetByProtocol(w http.ResponseWriter, r *http.Request) {
	protocol := strings.TrimSpace(mux.Vars(r)["protocol"])
	if protocol == "" {
		writeAPIError(w, r, http.StatusBadRequest, "DOCFLOW_INVALID_PROTOCOL", "invalid protocol")
		return
	}

	found, err := c.grds.GetByProtocol(r.Context(), protocol)
	if err != nil {
		if errors.Is(err, grd.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "DOCFLOW_GRD_NOT_FOUND", "grd not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "DOCFLOW_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.GRDToViewModel(found))
}
