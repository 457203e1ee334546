package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records cart and checkout activity.
type CheckoutMetrics struct {
	phaseTransitions *prometheus.CounterVec
	checkoutDuration *prometheus.HistogramVec
	cartMutations    *prometheus.CounterVec
}

// NewCheckoutMetrics registers the storefront metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	phases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_phase_transitions_total",
		Help: "Checkout phase transitions, labeled by the phase entered.",
	}, []string{"phase"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_submit_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart store mutations, labeled by operation.",
	}, []string{"op"})
	reg.MustRegister(phases, duration, mutations)
	return &CheckoutMetrics{
		phaseTransitions: phases,
		checkoutDuration: duration,
		cartMutations:    mutations,
	}
}

// ObservePhase counts entry into the named checkout phase.
func (m *CheckoutMetrics) ObservePhase(phase string) {
	if m == nil || m.phaseTransitions == nil {
		return
	}
	m.phaseTransitions.WithLabelValues(normalizeLabel(phase)).Inc()
}

// ObserveSubmit records the duration of one submission attempt.
func (m *CheckoutMetrics) ObserveSubmit(outcome string, duration time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	m.checkoutDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncCartMutation counts a cart store mutation.
func (m *CheckoutMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
