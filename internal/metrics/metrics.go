// Package metrics exports shell lifecycle events as Prometheus metrics.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1broseidon/deskshell/internal/shell"
)

// Metrics is a shell.Observer that counts lifecycle transitions.
type Metrics struct {
	registry *prometheus.Registry

	Events        *prometheus.CounterVec
	WindowsOpen   prometheus.Gauge
	WindowsHidden prometheus.Gauge
	HookFailures  *prometheus.CounterVec
	DragDuration  prometheus.Histogram
	Uptime        prometheus.GaugeFunc

	mu        sync.Mutex
	hidden    map[shell.AppID]bool
	dragStart time.Time
	now       func() time.Time
}

// New creates metrics registered on their own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	start := time.Now()

	m := &Metrics{
		registry: reg,
		hidden:   make(map[shell.AppID]bool),
		now:      time.Now,

		Events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskshell_events_total",
				Help: "Lifecycle transitions by kind",
			},
			[]string{"kind"},
		),
		WindowsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskshell_windows_open",
				Help: "Open windows, including minimized ones",
			},
		),
		WindowsHidden: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskshell_windows_minimized",
				Help: "Open windows that are minimized",
			},
		),
		HookFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskshell_hook_failures_total",
				Help: "Application hook failures by application",
			},
			[]string{"app"},
		),
		DragDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "deskshell_drag_duration_seconds",
				Help:    "Duration of window drags",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		Uptime: factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "deskshell_uptime_seconds",
				Help: "Seconds since the shell started",
			},
			func() float64 { return time.Since(start).Seconds() },
		),
	}
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe implements shell.Observer.
func (m *Metrics) Observe(ev shell.Event) {
	m.Events.WithLabelValues(string(ev.Kind)).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()

	switch ev.Kind {
	case shell.EventOpened:
		m.WindowsOpen.Inc()
	case shell.EventClosed:
		m.WindowsOpen.Dec()
		if m.hidden[ev.App] {
			delete(m.hidden, ev.App)
			m.WindowsHidden.Dec()
		}
	case shell.EventMinimized:
		if !m.hidden[ev.App] {
			m.hidden[ev.App] = true
			m.WindowsHidden.Inc()
		}
	case shell.EventRestored:
		if m.hidden[ev.App] {
			delete(m.hidden, ev.App)
			m.WindowsHidden.Dec()
		}
	case shell.EventHookFailed:
		m.HookFailures.WithLabelValues(string(ev.App)).Inc()
	case shell.EventDragStarted:
		m.dragStart = m.now()
	case shell.EventDragEnded:
		if !m.dragStart.IsZero() {
			m.DragDuration.Observe(m.now().Sub(m.dragStart).Seconds())
			m.dragStart = time.Time{}
		}
	}
}
