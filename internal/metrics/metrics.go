package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upload outcomes used as label values.
const (
	OutcomeOK            = "ok"
	OutcomeRemoteError   = "remote_error"
	OutcomeTimeout       = "timeout"
	OutcomePersistFailed = "persist_failed"
)

// Metrics exports upload counters to Prometheus. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	uploadDuration *prometheus.HistogramVec
	uploads        *prometheus.CounterVec
	uploadBytes    *prometheus.CounterVec
	orphans        *prometheus.CounterVec
}

// New registers the media collectors on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "media",
			Name:      "upload_duration_seconds",
			Help:      "Time spent waiting for the remote media service.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"kind", "outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "media",
			Name:      "uploads_total",
			Help:      "Upload requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		uploadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "media",
			Name:      "uploaded_bytes_total",
			Help:      "Bytes reported by the remote media service after upload.",
		}, []string{"kind"}),
		orphans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "media",
			Name:      "orphans_total",
			Help:      "Remote objects left without a media record.",
		}, []string{"resource_type"}),
	}

	for _, c := range []prometheus.Collector{m.uploadDuration, m.uploads, m.uploadBytes, m.orphans} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveUpload records one finished upload attempt.
func (m *Metrics) ObserveUpload(kind, outcome string, took time.Duration, bytes int64) {
	if m == nil {
		return
	}
	m.uploadDuration.WithLabelValues(kind, outcome).Observe(took.Seconds())
	m.uploads.WithLabelValues(kind, outcome).Inc()
	if outcome == OutcomeOK && bytes > 0 {
		m.uploadBytes.WithLabelValues(kind).Add(float64(bytes))
	}
}

func (m *Metrics) Orphaned(resourceType string) {
	if m == nil {
		return
	}
	m.orphans.WithLabelValues(resourceType).Inc()
}
