package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/adi-digital/docscriptum/pkg/configuration"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		panic(err)
	}
}

func ensureRequestID(w http.ResponseWriter, r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(configuration.Use().RequestIDHeader)
	if header == "" {
		header = "X-Request-ID"
	}

	requestID := strings.TrimSpace(r.Header.Get(header))
	if requestID == "" {
		requestID = strings.TrimSpace(r.Header.Get("X-Request-Id"))
	}
	if requestID == "" {
		requestID = uuid.NewString()
		w.Header().Set(header, requestID)
	}
	return requestID
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details any               `json:"details,omitempty"`
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	writeJSON(w, status, apiError{
		Code:    code,
		Message: message,
		Meta:    map[string]string{"request_id": ensureRequestID(w, r)},
	})
}

// writeAPIErrorDetails attaches a structured payload so the caller can see
// exactly which documents blocked the operation.
func writeAPIErrorDetails(w http.ResponseWriter, r *http.Request, status int, code string, message string, details any) {
	writeJSON(w, status, apiError{
		Code:    code,
		Message: message,
		Meta:    map[string]string{"request_id": ensureRequestID(w, r)},
		Details: details,
	})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, code string, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, apiError{
		Code:    code,
		Message: "validation failed",
		Meta:    map[string]string{"request_id": ensureRequestID(w, r)},
		Fields:  fields,
	})
}

func pathID(r *http.Request, vars map[string]string) (int64, bool) {
	raw, ok := vars["id"]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryLimit(r *http.Request) int {
	conf := configuration.Use()
	limit := conf.PageSize
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= conf.MaxPageSize {
			limit = parsed
		}
	}
	return limit
}

func queryOffset(r *http.Request) int {
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return 0
}
