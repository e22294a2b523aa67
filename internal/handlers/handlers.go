package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/database"
	"inkwell/internal/utils"
)

// Server holds all server dependencies
type Server struct {
	Store     database.Store
	Metrics   *utils.MetricsCollector
	ClientDir string
}

// NewServer creates a new Server instance with the given components
func NewServer(store database.Store, metrics *utils.MetricsCollector, clientDir string) *Server {
	return &Server{
		Store:     store,
		Metrics:   metrics,
		ClientDir: clientDir,
	}
}

// errorResponse is the wire shape of every error body.
type errorResponse struct {
	Msg string `json:"msg"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondError translates an error into the {msg} body with the status
// mapped from its AppError code. Unclassified errors become a generic 500.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	if s.Metrics != nil {
		s.Metrics.IncrementErrors()
	}

	if appErr, ok := err.(*utils.AppError); ok {
		s.respondJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), errorResponse{Msg: appErr.Message})
		return
	}

	log.Printf("Unclassified error: %v", err)
	s.respondJSON(w, http.StatusInternalServerError, errorResponse{Msg: "Server error"})
}

// decodeJSON parses a request body into the endpoint's request struct.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return utils.NewValidationError("Invalid request body")
	}
	return nil
}

// pathID parses a UUID path segment.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, utils.NewValidationError("Invalid ID format")
	}
	return id, nil
}

// Instrument records request counts and per-operation latency.
func (s *Server) Instrument(operation string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if s.Metrics != nil {
			s.Metrics.IncrementRequests()
		}
		handler(w, r)
		if s.Metrics != nil {
			s.Metrics.AddOperationLatency(operation, time.Since(start))
		}
	}
}
