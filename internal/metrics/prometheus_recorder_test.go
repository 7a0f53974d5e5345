package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveRequest("page", http.StatusOK, 20*time.Millisecond)
	pr.ObserveRequest("page", http.StatusOK, 10*time.Millisecond)
	pr.ObserveRequest("not_found", http.StatusNotFound, time.Millisecond)
	pr.ObserveRender("markdown", 5*time.Millisecond)
	pr.IncPageMapScan(ResultSuccess)
	pr.SetPages(12)
	pr.IncExportedPages(3)
	pr.SetLiveReloadClients(2)
	pr.IncLiveReloadBroadcast()

	assert.InDelta(t, 2, testutil.ToFloat64(pr.requests.WithLabelValues("page", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.requests.WithLabelValues("not_found", "404")), 0)
	assert.InDelta(t, 12, testutil.ToFloat64(pr.pages), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.exportedPages), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.lrClients), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.lrBroadcasts), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestHTTPHandler_ServesRegistry(t *testing.T) {
	reg := NewRegistry()
	NewPrometheusRecorder(reg).SetPages(4)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "stackdocs_pages 4"), body)
	assert.Contains(t, body, "go_goroutines")
}

func TestNoopRecorder(t *testing.T) {
	r := OrNoop(nil)
	r.ObserveRequest("x", 200, time.Second)
	r.SetPages(1)
	_, ok := r.(NoopRecorder)
	assert.True(t, ok)
}
