package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestAPIMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAPIMetrics(reg)

	metrics.ObserveRequest("POST", "/api/v1/checkout", 200, 120*time.Millisecond)
	metrics.IncCartMutation("add")
	metrics.IncCheckoutOutcome("success")
	metrics.IncCheckoutOutcome("out_of_stock")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_mutations_total", "op", "add"); err != nil {
		t.Fatalf("fetch cart mutations: %v", err)
	} else if got != 1 {
		t.Fatalf("expected add=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_outcomes_total", "outcome", "out_of_stock"); err != nil {
		t.Fatalf("fetch checkout outcomes: %v", err)
	} else if got != 1 {
		t.Fatalf("expected out_of_stock=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/checkout"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestAPIMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *APIMetrics
	metrics.ObserveRequest("GET", "/", 200, time.Millisecond)
	metrics.IncCartMutation("clear")
	metrics.IncCheckoutOutcome("success")

	empty := NewAPIMetrics(nil)
	empty.IncCartMutation("add")
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
