package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
	"github.com/fullstackmenu/stackdocs/internal/metrics"
	"github.com/fullstackmenu/stackdocs/internal/observability"
)

type recordingRecorder struct {
	metrics.NoopRecorder
	routes   []string
	statuses []int
}

func (r *recordingRecorder) ObserveRequest(route string, status int, _ time.Duration) {
	r.routes = append(r.routes, route)
	r.statuses = append(r.statuses, status)
}

func newChain(buf *bytes.Buffer, rec metrics.Recorder) func(http.Handler) http.Handler {
	logger := slog.New(slog.NewTextHandler(buf, nil))
	return Chain(logger, derrors.NewHTTPErrorAdapter(logger), rec, "/docs")
}

func TestChain_LogsAndRecordsRequests(t *testing.T) {
	var logs bytes.Buffer
	rec := &recordingRecorder{}
	var seenID string
	h := newChain(&logs, rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = observability.GetContext(r.Context()).RequestID
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/html", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.NotEmpty(t, seenID)
	assert.Equal(t, seenID, w.Header().Get(RequestIDHeader))
	assert.Equal(t, []string{"page"}, rec.routes)
	assert.Equal(t, []int{http.StatusTeapot}, rec.statuses)
	assert.Contains(t, logs.String(), "HTTP request")
	assert.Contains(t, logs.String(), "status=418")
	assert.Contains(t, logs.String(), "request_id="+seenID)
}

func TestChain_KeepsIncomingRequestID(t *testing.T) {
	var logs bytes.Buffer
	h := newChain(&logs, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestChain_RecoversPanics(t *testing.T) {
	var logs bytes.Buffer
	h := newChain(&logs, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body derrors.HTTPErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal", body.Code)
	assert.Contains(t, logs.String(), "HTTP handler panic")
}

func TestRouteKind(t *testing.T) {
	tests := map[string]string{
		"/":                   "index",
		"/docs":               "page",
		"/docs/html":          "page",
		"/docsx":              "other",
		"/_search":            "search",
		"/_search/index.json": "search",
		"/_static/style.css":  "static",
		"/healthz":            "healthz",
		"/metrics":            "metrics",
		"/livereload":         "livereload",
		"/favicon.ico":        "other",
	}
	for path, want := range tests {
		assert.Equal(t, want, RouteKind(path, "/docs"), path)
	}
}

func TestResponseWriter_Flush(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
	var _ http.Flusher = rw
	rw.Flush()
	assert.True(t, w.Flushed)
}
