package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const Namespace = "copytrader"

// Metrics holds the engine collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	detections        *prometheus.CounterVec
	submissions       *prometheus.CounterVec
	submissionLatency *prometheus.HistogramVec
	reconnects        prometheus.Counter
	frames            prometheus.Counter
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{registry: registry}

	m.detections = m.newCounterVec("pipeline", "detections_total",
		"detected swaps by venue and outcome", "venue", "outcome")
	m.submissions = m.newCounterVec("submitter", "submissions_total",
		"bundle submissions by venue and result", "venue", "result")
	m.submissionLatency = m.newHistogramVec("submitter", "submission_latency_ms",
		"time from first blockhash fetch to the final poll result",
		[]float64{250, 500, 1000, 2500, 5000, 10000, 30000, 60000}, "venue")
	m.reconnects = m.newCounter("stream", "reconnects_total", "stream reconnect attempts")
	m.frames = m.newCounter("stream", "frames_total", "text frames received from the feed")

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) IncDetections(venue, outcome string) {
	if m == nil {
		return
	}
	m.detections.WithLabelValues(venue, outcome).Inc()
}

func (m *Metrics) IncSubmissions(venue, result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(venue, result).Inc()
}

func (m *Metrics) ObserveSubmissionLatency(venue string, d time.Duration) {
	if m == nil {
		return
	}
	m.submissionLatency.WithLabelValues(venue).Observe(float64(d.Milliseconds()))
}

func (m *Metrics) IncReconnects() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}

func (m *Metrics) IncFrames() {
	if m == nil {
		return
	}
	m.frames.Inc()
}

func (m *Metrics) newCounter(subsystem, name, help string) prometheus.Counter {
	metric := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
	m.registry.MustRegister(metric)

	return metric
}

func (m *Metrics) newCounterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	metric := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
	m.registry.MustRegister(metric)

	return metric
}

func (m *Metrics) newHistogramVec(subsystem, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	metric := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
	m.registry.MustRegister(metric)

	return metric
}
