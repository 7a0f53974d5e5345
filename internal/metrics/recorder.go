package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for page rendering and HTTP traffic.
type Recorder interface {
	ObserveRequest(route string, status int, d time.Duration)
	ObserveRender(kind string, d time.Duration)
	IncPageMapScan(result ResultLabel)
	SetPages(n int)
	IncExportedPages(n int)
	SetLiveReloadClients(n int)
	IncLiveReloadBroadcast()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRequest(string, int, time.Duration) {}
func (NoopRecorder) ObserveRender(string, time.Duration)       {}
func (NoopRecorder) IncPageMapScan(ResultLabel)                {}
func (NoopRecorder) SetPages(int)                              {}
func (NoopRecorder) IncExportedPages(int)                      {}
func (NoopRecorder) SetLiveReloadClients(int)                  {}
func (NoopRecorder) IncLiveReloadBroadcast()                   {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
