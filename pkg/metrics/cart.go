package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// CartMetrics records cart mutations, storage failures and checkouts.
type CartMetrics struct {
	mutations        *prometheus.CounterVec
	storageFailures  *prometheus.CounterVec
	checkouts        prometheus.Counter
	checkoutValue    prometheus.Histogram
	checkoutQuantity prometheus.Histogram
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Persisted cart mutations by operation.",
	}, []string{"op"})
	storageFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_storage_failures_total",
		Help:      "Cart slot reads or writes that failed and were recovered.",
	}, []string{"op"})
	checkouts := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Orders handed to the messaging channel.",
	})
	checkoutValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_value",
		Help:      "Order total at checkout, in store currency.",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
	})
	checkoutQuantity := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_items",
		Help:      "Units per order at checkout.",
		Buckets:   prometheus.LinearBuckets(1, 2, 8),
	})
	reg.MustRegister(mutations, storageFailures, checkouts, checkoutValue, checkoutQuantity)
	return &CartMetrics{
		mutations:        mutations,
		storageFailures:  storageFailures,
		checkouts:        checkouts,
		checkoutValue:    checkoutValue,
		checkoutQuantity: checkoutQuantity,
	}
}

// IncMutation counts a persisted cart mutation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncStorageFailure counts a recovered storage failure.
func (c *CartMetrics) IncStorageFailure(op string) {
	if c == nil || c.storageFailures == nil {
		return
	}
	c.storageFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveCheckout records one submitted order.
func (c *CartMetrics) ObserveCheckout(total float64, quantity int) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.Inc()
	c.checkoutValue.Observe(total)
	c.checkoutQuantity.Observe(float64(quantity))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
