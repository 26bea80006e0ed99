package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IngestMetrics records outcomes of the product image ingestion pipeline.
type IngestMetrics struct {
	uploads      *prometheus.CounterVec
	placeholders prometheus.Counter
	failures     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewIngestMetrics registers the ingestion metrics on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "image_uploads_total",
		Help: "Images uploaded to the media host, by source kind.",
	}, []string{"source"})
	placeholders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_placeholders_total",
		Help: "Placeholder images substituted during ingestion.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "image_ingest_failures_total",
		Help: "Image ingestion failures, by reason.",
	}, []string{"reason"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "image_upload_duration_seconds",
		Help:    "Duration of individual image uploads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	reg.MustRegister(uploads, placeholders, failures, duration)
	return &IngestMetrics{
		uploads:      uploads,
		placeholders: placeholders,
		failures:     failures,
		duration:     duration,
	}
}

// IncUpload counts one successful upload for the given source kind.
func (m *IngestMetrics) IncUpload(source string) {
	if m == nil || m.uploads == nil {
		return
	}
	m.uploads.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncPlaceholder counts one placeholder substitution.
func (m *IngestMetrics) IncPlaceholder() {
	if m == nil || m.placeholders == nil {
		return
	}
	m.placeholders.Inc()
}

// IncFailure counts one ingestion failure for the given reason.
func (m *IngestMetrics) IncFailure(reason string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveUploadDuration records how long one upload took.
func (m *IngestMetrics) ObserveUploadDuration(source string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(source)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
