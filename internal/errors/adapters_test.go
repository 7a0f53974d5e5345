package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation", ValidationError("bad").Build(), http.StatusBadRequest},
		{"not found", NotFoundError("missing").Build(), http.StatusNotFound},
		{"render", NewError(CategoryRender, "markdown").Build(), http.StatusUnprocessableEntity},
		{"runtime", NewError(CategoryRuntime, "down").Build(), http.StatusServiceUnavailable},
		{"filesystem", FileSystemError("disk").Build(), http.StatusInternalServerError},
		{"unclassified", stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.StatusCodeFor(tt.err))
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	var logs bytes.Buffer
	adapter := NewHTTPErrorAdapter(slog.New(slog.NewTextHandler(&logs, nil)))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/docs/missing", nil)

	adapter.WriteErrorResponse(rec, req, NotFoundError("page not found").WithContext("route", "/docs/missing").Build())

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "page not found", payload.Error)
	assert.Equal(t, "not_found", payload.Code)
	assert.Equal(t, "/docs/missing", payload.Details["route"])
	assert.Contains(t, logs.String(), "category=not_found")
}

func TestHTTPErrorAdapter_LogsUnclassifiedAsInternal(t *testing.T) {
	var logs bytes.Buffer
	adapter := NewHTTPErrorAdapter(slog.New(slog.NewTextHandler(&logs, nil)))
	rec := httptest.NewRecorder()

	adapter.WriteErrorResponse(rec, httptest.NewRequest(http.MethodGet, "/_search", nil), stderrors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "category=internal")
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	assert.Equal(t, 0, adapter.ExitCodeFor(nil))
	assert.Equal(t, 2, adapter.ExitCodeFor(ValidationError("x").Build()))
	assert.Equal(t, 7, adapter.ExitCodeFor(ConfigError("x").Build()))
	assert.Equal(t, 11, adapter.ExitCodeFor(NewError(CategoryRender, "x").Build()))
	assert.Equal(t, 1, adapter.ExitCodeFor(stderrors.New("x")))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var stderr bytes.Buffer
	code := -1
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	adapter.stderr = &stderr
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("content_dir is required").Build())

	assert.Equal(t, 7, code)
	assert.Equal(t, "content_dir is required\n", stderr.String())
}
