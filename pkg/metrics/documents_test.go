package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestDocumentMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewDocumentMetrics(reg)
	kind := "po"
	metrics.ObserveRenderDuration(kind, 250*time.Millisecond)
	metrics.IncStored(kind)
	metrics.IncDownload(kind)
	metrics.IncEvicted("expired")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "documents_stored", "kind", kind); err != nil {
		t.Fatalf("fetch stored: %v", err)
	} else if got != 1 {
		t.Fatalf("expected stored=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "document_downloads", "kind", kind); err != nil {
		t.Fatalf("fetch downloads: %v", err)
	} else if got != 1 {
		t.Fatalf("expected downloads=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "documents_evicted", "reason", "expired"); err != nil {
		t.Fatalf("fetch evicted: %v", err)
	} else if got != 1 {
		t.Fatalf("expected evicted=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "document_render_duration_seconds", "kind", kind); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestDocumentMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewDocumentMetrics(nil)
	metrics.ObserveRenderDuration("po", time.Second)
	metrics.IncStored("po")
	metrics.IncDownload("po")
	metrics.IncEvicted("downloaded")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
