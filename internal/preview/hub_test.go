package preview

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, url string) *bufio.Reader {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body)
}

func readUntil(r *bufio.Reader, needle string) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		line, err := r.ReadString('\n')
		if err != nil {
			return false
		}
		if strings.Contains(line, needle) {
			return true
		}
	}
	return false
}

func TestHub_InitialConnectReceivesCurrentHash(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Shutdown()
	hub.Broadcast("abc123")

	server := httptest.NewServer(hub)
	defer server.Close()

	r := connect(t, server.URL)
	assert.True(t, readUntil(r, `data: {"hash":"abc123"}`))
}

func TestHub_BroadcastReachesClient(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Shutdown()
	server := httptest.NewServer(hub)
	defer server.Close()

	r := connect(t, server.URL)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast("v1")
	assert.True(t, readUntil(r, "v1"))
	hub.Broadcast("v1")
	hub.Broadcast("v2")
	line, err := r.ReadString('\n')
	for err == nil && strings.TrimSpace(line) == "" {
		line, err = r.ReadString('\n')
	}
	require.NoError(t, err)
	assert.Contains(t, line, "v2", "duplicate hash must not be resent")
}

func TestHub_ShutdownDisconnectsClients(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub)
	defer server.Close()

	_ = connect(t, server.URL)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Shutdown()
	assert.Equal(t, 0, hub.Clients())

	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livereload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHub_NilBroadcastIsNoop(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() { hub.Broadcast("x") })
}

func TestScriptConnectsToEndpoint(t *testing.T) {
	assert.Contains(t, Script, "new EventSource('/livereload')")
	assert.Contains(t, Script, "location.reload()")
}
