package metric

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "deskshare"

// Registry holds all application metrics on a private Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	// Session metrics
	SessionsActive    prometheus.Gauge
	SessionsStarted   prometheus.Counter
	AdmissionsDenied  *prometheus.CounterVec
	ConnectionsActive prometheus.Gauge

	// Frame metrics
	FramesPublished  prometheus.Counter
	FramesSkipped    *prometheus.CounterVec
	FramesDropped    prometheus.Counter
	FrameDeliveries  prometheus.Counter
	DeliveryFailures prometheus.Counter

	// Command metrics
	CommandsTotal *prometheus.CounterVec

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

var (
	global     *Registry
	globalOnce sync.Once
)

// NewRegistry creates a registry with the Go and process collectors attached.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Whether a control session is currently active (0 or 1).",
		}),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Number of control sessions started.",
		}),
		AdmissionsDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admissions_denied_total",
			Help:      "Number of rejected stream handshakes by reason.",
		}, []string{"reason"}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_connections",
			Help:      "Number of attached stream connections.",
		}),
		FramesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_published_total",
			Help:      "Number of frames handed to the dispatcher.",
		}),
		FramesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_skipped_total",
			Help:      "Number of producer ticks that yielded no frame, by stage.",
		}, []string{"stage"}),
		FramesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Number of frames dropped because a viewer queue was full.",
		}),
		FrameDeliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_deliveries_total",
			Help:      "Number of successful per-connection frame deliveries.",
		}),
		DeliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_failures_total",
			Help:      "Number of connections removed after a failed delivery.",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Number of control commands executed, by command and result.",
		}, []string{"command", "result"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Number of HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		r.SessionsActive,
		r.SessionsStarted,
		r.AdmissionsDenied,
		r.ConnectionsActive,
		r.FramesPublished,
		r.FramesSkipped,
		r.FramesDropped,
		r.FrameDeliveries,
		r.DeliveryFailures,
		r.CommandsTotal,
		r.RequestsTotal,
		r.RequestDuration,
	)
	return r
}

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns the /metrics handler of the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler exposing r in Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// SessionStarted records a successful admission.
func (r *Registry) SessionStarted() {
	r.SessionsActive.Set(1)
	r.SessionsStarted.Inc()
}

// SessionEnded records the end of the control session.
func (r *Registry) SessionEnded() {
	r.SessionsActive.Set(0)
}

// AdmissionDenied records a rejected handshake.
func (r *Registry) AdmissionDenied(reason string) {
	r.AdmissionsDenied.WithLabelValues(reason).Inc()
}

// FramePublished records one frame fanned out to deliveries connections.
func (r *Registry) FramePublished(deliveries int) {
	r.FramesPublished.Inc()
	r.FrameDeliveries.Add(float64(deliveries))
}

// FrameSkipped records a producer tick that yielded no frame.
func (r *Registry) FrameSkipped(stage string) {
	r.FramesSkipped.WithLabelValues(stage).Inc()
}

// FrameDropped records a frame discarded by a slow viewer.
func (r *Registry) FrameDropped() {
	r.FramesDropped.Inc()
}

// DeliveryFailed records a connection removed after a send error.
func (r *Registry) DeliveryFailed() {
	r.DeliveryFailures.Inc()
}

// CommandCompleted records the outcome of a control command.
func (r *Registry) CommandCompleted(command string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.CommandsTotal.WithLabelValues(command, result).Inc()
}

// ConnectionOpened increments the attached stream connection gauge.
func (r *Registry) ConnectionOpened() {
	r.ConnectionsActive.Inc()
}

// ConnectionClosed decrements the attached stream connection gauge.
func (r *Registry) ConnectionClosed() {
	r.ConnectionsActive.Dec()
}

// ObserveRequest records one HTTP request.
func (r *Registry) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	r.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
