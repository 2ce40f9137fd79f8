package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DocumentMetrics records the PDF assembly and download-store pipeline.
type DocumentMetrics struct {
	renderDuration *prometheus.HistogramVec
	stored         *prometheus.CounterVec
	downloads      *prometheus.CounterVec
	evicted        *prometheus.CounterVec
}

// NewDocumentMetrics registers the document metrics on the provided registerer.
func NewDocumentMetrics(reg prometheus.Registerer) *DocumentMetrics {
	if reg == nil {
		return &DocumentMetrics{}
	}
	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "document_render_duration_seconds",
		Help:    "Duration of PDF assembly in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	stored := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_stored",
		Help: "Documents written into the download store.",
	}, []string{"kind"})
	downloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_downloads",
		Help: "Successful document downloads.",
	}, []string{"kind"})
	evicted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_evicted",
		Help: "Documents removed from the download store.",
	}, []string{"reason"})
	reg.MustRegister(renderDuration, stored, downloads, evicted)
	return &DocumentMetrics{
		renderDuration: renderDuration,
		stored:         stored,
		downloads:      downloads,
		evicted:        evicted,
	}
}

// ObserveRenderDuration records how long assembling a document took.
func (d *DocumentMetrics) ObserveRenderDuration(kind string, duration time.Duration) {
	if d == nil || d.renderDuration == nil {
		return
	}
	d.renderDuration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncStored increments the stored counter for the document kind.
func (d *DocumentMetrics) IncStored(kind string) {
	if d == nil || d.stored == nil {
		return
	}
	d.stored.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncDownload increments the download counter for the document kind.
func (d *DocumentMetrics) IncDownload(kind string) {
	if d == nil || d.downloads == nil {
		return
	}
	d.downloads.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncEvicted increments the eviction counter with the removal reason.
func (d *DocumentMetrics) IncEvicted(reason string) {
	if d == nil || d.evicted == nil {
		return
	}
	d.evicted.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
