package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/job-tracker/internal/errs"
)

func newTestServer() *Server {
	return &Server{
		validate: validator.New(),
		log:      zap.NewNop().Sugar(),
	}
}

// TestParseQueryInt tests the parseQueryInt helper function
func TestParseQueryInt(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		key          string
		defaultValue int
		maxValue     int
		want         int
	}{
		{"missing uses default", "", "limit", 50, 100, 50},
		{"valid value", "limit=25", "limit", 50, 100, 25},
		{"clamped to max", "limit=500", "limit", 50, 100, 100},
		{"zero max means unbounded", "limit=500", "limit", 50, 0, 500},
		{"negative uses default", "limit=-3", "limit", 50, 100, 50},
		{"garbage uses default", "limit=abc", "limit", 50, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/jobs?"+tt.query, nil)
			got := parseQueryInt(req, tt.key, tt.defaultValue, tt.maxValue)
			if got != tt.want {
				t.Errorf("parseQueryInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errs.New(errs.KindValidation, "bad input"), http.StatusBadRequest},
		{"not found", errs.New(errs.KindNotFound, "no such job"), http.StatusNotFound},
		{"storage", errs.New(errs.KindStorage, "pool exhausted"), http.StatusServiceUnavailable},
		{"internal", errs.New(errs.KindInternal, "broken"), http.StatusInternalServerError},
		{"untyped", http.ErrBodyNotAllowed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestHandleBatchStatus_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"empty updates", `{"updates": []}`},
		{"missing updates", `{}`},
		{"zero id", `{"updates": [{"id": 0, "status": "applied"}]}`},
		{"missing status", `{"updates": [{"id": 1}]}`},
		{"unknown status", `{"updates": [{"id": 1, "status": "promoted"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			req := httptest.NewRequest(http.MethodPost, "/jobs/batch-status", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			s.handleBatchStatus(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleIngest_SchemaRejections(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing records", `{"status": "new"}`},
		{"records not array", `{"records": {"url": "https://x.test/1"}}`},
		{"record missing url", `{"records": [{"title": "SRE"}]}`},
		{"bad url scheme", `{"records": [{"url": "ftp://x.test/1"}]}`},
		{"unknown record field", `{"records": [{"url": "https://x.test/1", "salary": "1"}]}`},
		{"unknown status", `{"status": "promoted", "records": [{"url": "https://x.test/1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			req := httptest.NewRequest(http.MethodPost, "/jobs/ingest", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			s.handleIngest(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleTrackerStatus_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing path", `{"target": "Applied"}`},
		{"missing target", `{"tracker_path": "acme.md"}`},
		{"unknown target", `{"tracker_path": "acme.md", "target": "Hired"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			req := httptest.NewRequest(http.MethodPost, "/tracker/status", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			s.handleTrackerStatus(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}
