package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "referee_assist"

// Prometheus implements Recorder on a dedicated registry.
type Prometheus struct {
	registry *prometheus.Registry

	incidents          *prometheus.CounterVec
	reviewClears       *prometheus.CounterVec
	recognitionLatency prometheus.Histogram
	recognitions       *prometheus.CounterVec
	cameraTransitions  *prometheus.CounterVec
	cameraFailures     *prometheus.CounterVec
	connections        prometheus.Gauge
}

// NewPrometheus registers all collectors on a fresh registry.
func NewPrometheus(namespace string) *Prometheus {
	if namespace == "" {
		namespace = defaultNamespace
	}
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		incidents: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_issued_total",
			Help:      "Cards issued, by card type",
		}, []string{"card_type"}),
		reviewClears: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_clears_total",
			Help:      "Delayed review clears, by whether they were applied or superseded",
		}, []string{"result"}),
		recognitionLatency: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recognition_duration_seconds",
			Help:      "Time from scan start to resolution",
			Buckets:   []float64{0.5, 1, 1.5, 2, 3, 5},
		}),
		recognitions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recognitions_total",
			Help:      "Completed recognition sessions, by outcome",
		}, []string{"outcome"}),
		cameraTransitions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "camera_transitions_total",
			Help:      "Camera state transitions, by target state",
		}, []string{"state"}),
		cameraFailures: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "camera_failures_total",
			Help:      "Camera start failures, by reason",
		}, []string{"reason"}),
		connections: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Connected websocket clients",
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the exposition format for this registry.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) IncidentIssued(cardType string) {
	p.incidents.WithLabelValues(cardType).Inc()
}

func (p *Prometheus) ReviewCleared(applied bool) {
	result := "superseded"
	if applied {
		result = "applied"
	}
	p.reviewClears.WithLabelValues(result).Inc()
}

func (p *Prometheus) RecognitionCompleted(elapsed time.Duration, matched bool) {
	p.recognitionLatency.Observe(elapsed.Seconds())
	outcome := "empty_roster"
	if matched {
		outcome = "matched"
	}
	p.recognitions.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) CameraTransition(state string) {
	p.cameraTransitions.WithLabelValues(state).Inc()
}

func (p *Prometheus) CameraFailure(reason string) {
	p.cameraFailures.WithLabelValues(reason).Inc()
}

func (p *Prometheus) Connections(count int) {
	p.connections.Set(float64(count))
}
