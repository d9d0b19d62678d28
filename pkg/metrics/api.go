package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics records request timings plus storefront domain counters.
type APIMetrics struct {
	requestDuration  *prometheus.HistogramVec
	cartMutations    *prometheus.CounterVec
	checkoutOutcomes *prometheus.CounterVec
}

// NewAPIMetrics registers the API metrics on the provided registerer.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	if reg == nil {
		return &APIMetrics{}
	}
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	checkoutOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(requestDuration, cartMutations, checkoutOutcomes)
	return &APIMetrics{
		requestDuration:  requestDuration,
		cartMutations:    cartMutations,
		checkoutOutcomes: checkoutOutcomes,
	}
}

// ObserveRequest records one served request.
func (m *APIMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil || m.requestDuration == nil {
		return
	}
	m.requestDuration.
		WithLabelValues(normalizeLabel(method), normalizeLabel(route), strconv.Itoa(status)).
		Observe(duration.Seconds())
}

// IncCartMutation counts one cart operation (add, update, clear).
func (m *APIMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCheckoutOutcome counts one resolved checkout attempt by outcome.
func (m *APIMetrics) IncCheckoutOutcome(outcome string) {
	if m == nil || m.checkoutOutcomes == nil {
		return
	}
	m.checkoutOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
