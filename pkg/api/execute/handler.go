// Package execute exposes the tool registry over HTTP: a single POST
// endpoint that dispatches {function_name, parameters} to a registered
// handler and returns its result.
package execute

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"brquote/pkg/core/logging"
	"brquote/pkg/core/tools"
)

// Handler serves the dispatch endpoint.
type Handler struct {
	registry *tools.Registry
	log      *logrus.Entry
}

// NewHandler creates an execute handler over a registry.
func NewHandler(registry *tools.Registry) *Handler {
	return &Handler{
		registry: registry,
		log:      logging.Component("api.execute"),
	}
}

// ExecuteRequest is the dispatch request body.
type ExecuteRequest struct {
	FunctionName string         `json:"function_name"`
	Parameters   map[string]any `json:"parameters"`
}

// ExecuteResponse wraps a successful tool result.
type ExecuteResponse struct {
	Result any `json:"result"`
}

// ErrorResponse wraps a dispatch failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleExecute dispatches one tool call. Validation failures and unknown
// function names are 400; upstream data gaps come back as a null result with
// 200, matching the fetch functions' no-data contract.
func (h *Handler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)
	log := h.log.WithField("request_id", requestID)

	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("malformed request body")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FunctionName == "" {
		writeError(w, http.StatusBadRequest, "function_name is required")
		return
	}

	log = log.WithField("function", req.FunctionName)
	result, err := h.registry.Execute(r.Context(), req.FunctionName, req.Parameters)
	if err != nil {
		log.WithError(err).Warn("dispatch failed")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Info("dispatch completed")
	json.NewEncoder(w).Encode(ExecuteResponse{Result: result})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}
