package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stackdocs"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	requestDuration *prom.HistogramVec
	requests        *prom.CounterVec
	renderDuration  *prom.HistogramVec
	pageMapScans    *prom.CounterVec
	pages           prom.Gauge
	exportedPages   prom.Counter
	lrClients       prom.Gauge
	lrBroadcasts    prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route kind",
			Buckets:   prom.DefBuckets,
		}, []string{"route"}),
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route kind and status code",
		}, []string{"route", "status"}),
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of page renders by kind",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		pageMapScans: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_map_scans_total",
			Help:      "Content directory scans by result",
		}, []string{"result"}),
		pages: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pages",
			Help:      "Number of routable pages in the current page map",
		}),
		exportedPages: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "exported_pages_total",
			Help:      "Pages written by static export",
		}),
		lrClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "livereload_clients",
			Help:      "Connected live-reload clients",
		}),
		lrBroadcasts: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "livereload_broadcasts_total",
			Help:      "Live-reload change notifications sent",
		}),
	}
	reg.MustRegister(pr.requestDuration, pr.requests, pr.renderDuration, pr.pageMapScans, pr.pages,
		pr.exportedPages, pr.lrClients, pr.lrBroadcasts)
	return pr
}

func (p *PrometheusRecorder) ObserveRequest(route string, status int, d time.Duration) {
	p.requestDuration.WithLabelValues(route).Observe(d.Seconds())
	p.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (p *PrometheusRecorder) ObserveRender(kind string, d time.Duration) {
	p.renderDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageMapScan(result ResultLabel) {
	p.pageMapScans.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) SetPages(n int) { p.pages.Set(float64(n)) }

func (p *PrometheusRecorder) IncExportedPages(n int) { p.exportedPages.Add(float64(n)) }

func (p *PrometheusRecorder) SetLiveReloadClients(n int) { p.lrClients.Set(float64(n)) }

func (p *PrometheusRecorder) IncLiveReloadBroadcast() { p.lrBroadcasts.Inc() }

// NewRegistry returns a registry pre-loaded with the Go runtime and process collectors.
func NewRegistry() *prom.Registry {
	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
