// Package metrics exports render counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry so several instances (tests, servers) never
// collide on the global one.
type Metrics struct {
	Registry       *prom.Registry
	RendersTotal   prom.Counter
	RenderFailures prom.Counter
	RenderDuration prom.Histogram
}

// New creates a registry with the render collectors and the Go runtime
// collectors registered.
func New() *Metrics {
	m := &Metrics{
		Registry: prom.NewRegistry(),
		RendersTotal: prom.NewCounter(prom.CounterOpts{
			Namespace: "wikirefs", Name: "renders_total", Help: "Documents rendered by the render queue",
		}),
		RenderFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: "wikirefs", Name: "renders_failed_total", Help: "Renders that returned an error or panicked",
		}),
		RenderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "wikirefs", Name: "render_duration_seconds", Help: "Time spent rendering one document",
			Buckets: prom.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	m.Registry.MustRegister(m.RendersTotal, m.RenderFailures, m.RenderDuration)
	m.Registry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return m
}

// ObserveRender records one finished render.
func (m *Metrics) ObserveRender(d time.Duration, err error) {
	m.RendersTotal.Inc()
	if err != nil {
		m.RenderFailures.Inc()
	}
	m.RenderDuration.Observe(d.Seconds())
}

// RegisterQueueLength exports the number of pending jobs, read at scrape time.
func (m *Metrics) RegisterQueueLength(pending func() int) {
	m.Registry.MustRegister(prom.NewGaugeFunc(prom.GaugeOpts{
		Namespace: "wikirefs", Name: "render_queue_length", Help: "Render jobs waiting for a worker",
	}, func() float64 {
		return float64(pending())
	}))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
