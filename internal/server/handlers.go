package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/lifecycle"
	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/status"
)

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// extractValidationErrors converts validator errors into a readable message
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}

// handleListJobs returns one page of jobs awaiting triage, newest first.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", lifecycle.DefaultPageLimit, lifecycle.MaxPageLimit)
	cursorToken := r.URL.Query().Get("cursor")

	page, err := s.svc.ListNew(r.Context(), limit, cursorToken)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, page)
}

// BatchStatusRequest represents a batch status update request.
type BatchStatusRequest struct {
	Updates []BatchStatusItem `json:"updates" validate:"required,min=1,dive"`
}

// BatchStatusItem is one item of a batch status update request.
type BatchStatusItem struct {
	ID     int64  `json:"id" validate:"required,gt=0"`
	Status string `json:"status" validate:"required"`
}

// handleBatchStatus applies an all-or-nothing batch of status updates.
func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	var req BatchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	updates := make([]db.StatusUpdate, 0, len(req.Updates))
	for _, item := range req.Updates {
		st, err := status.Parse(item.Status)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("item %d: %s", item.ID, err.Error()))
			return
		}
		updates = append(updates, db.StatusUpdate{ID: item.ID, Status: st})
	}

	result, err := s.svc.ApplyBatch(r.Context(), updates)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	code := http.StatusOK
	if result.FailedCount > 0 {
		code = http.StatusConflict
	}
	s.jsonResponse(w, code, result)
}

// IngestRequest represents an ingest request. Records is kept raw so the
// payload can be schema-checked before any unmarshaling.
type IngestRequest struct {
	Status  string          `json:"status"`
	Records json.RawMessage `json:"records" validate:"required"`
}

// IngestResponse reports the outcome of one ingest run.
type IngestResponse struct {
	RunID          string `json:"run_id"`
	InsertedCount  int    `json:"inserted_count"`
	DuplicateCount int    `json:"duplicate_count"`
}

// handleIngest inserts a batch of scraped jobs, skipping known URLs.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if err := schemas.ValidateIngestRecords(req.Records); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var records []db.IngestRecord
	if err := json.Unmarshal(req.Records, &records); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid records payload")
		return
	}

	st := status.New
	if req.Status != "" {
		parsed, err := status.Parse(req.Status)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		st = parsed
	}

	result, runID, err := s.svc.Ingest(r.Context(), records, st)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, IngestResponse{
		RunID:          runID.String(),
		InsertedCount:  result.InsertedCount,
		DuplicateCount: result.DuplicateCount,
	})
}

// TrackerStatusRequest represents a tracker-driven status transition request.
type TrackerStatusRequest struct {
	TrackerPath string `json:"tracker_path" validate:"required"`
	Target      string `json:"target" validate:"required"`
	Force       bool   `json:"force"`
}

// handleTrackerStatus moves one job, addressed by its tracker file, to a new
// status. A refusal by the policy or the guardrails comes back as a 200 with
// blocked set, not as an error.
func (s *Server) handleTrackerStatus(w http.ResponseWriter, r *http.Request) {
	var req TrackerStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	target, err := status.ParseTracker(req.Target)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := s.svc.UpdateTrackerStatus(r.Context(), lifecycle.TrackerUpdate{
		TrackerPath: req.TrackerPath,
		Target:      target,
		Force:       req.Force,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, outcome)
}
