package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"complaintflow/internal/models"
	"complaintflow/internal/pipeline"

	"github.com/gorilla/mux"
)

// Service is the pipeline surface the HTTP layer consumes.
type Service interface {
	Ingest(ctx context.Context, in models.ComplaintInput) (pipeline.IngestResult, error)
	FindSimilar(ctx context.Context, text string, topK int, excludeID string) ([]models.SimilarComplaint, error)
}

type Server struct {
	svc Service
	log *slog.Logger
}

func NewServer(svc Service, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{svc: svc, log: log}
}

func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/complaints", s.handleCreateComplaint).Methods(http.MethodPost)
	api.HandleFunc("/complaints/similar", s.handleSimilar).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleCreateComplaint(w http.ResponseWriter, r *http.Request) {
	var rec models.APIRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}

	res, err := s.svc.Ingest(r.Context(), pipeline.FromAPIRecord(rec))
	if err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("missing required fields: %s", strings.Join(verr.Missing, ", ")))
			return
		}
		s.log.Error("complaint ingestion failed", "complaint_id", rec.ComplaintID, "error", err)
		writeErr(w, statusFor(err), fmt.Errorf("an error occurred while processing the complaint"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Complaint processed successfully",
		"complaintId": res.RowID,
	})
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("text")
	if strings.TrimSpace(text) == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("text is required"))
		return
	}
	topK, err := strconv.Atoi(q.Get("topK"))
	if err != nil || topK <= 0 {
		topK = 5
	}

	results, err := s.svc.FindSimilar(r.Context(), text, topK, q.Get("currentComplaintId"))
	if err != nil {
		s.log.Error("similarity lookup failed", "error", err)
		writeErr(w, statusFor(err), fmt.Errorf("an error occurred while finding similar complaints"))
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func statusFor(err error) int {
	var eerr *pipeline.ExternalServiceError
	if errors.As(err, &eerr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"error": err.Error()})
}
