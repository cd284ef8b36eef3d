package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/bookstore-backend/pkg/enums"
)

// CartMetrics records cart and buy-now mutations.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	failures  *prometheus.CounterVec
	itemCount prometheus.Histogram
}

// NewCartMetrics registers the cart collectors on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart and buy-now mutations applied.",
	}, []string{"operation"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Cart and buy-now mutations that failed to persist.",
	}, []string{"operation"})
	itemCount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_item_count",
		Help:    "Item count of carts after a mutation.",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})
	reg.MustRegister(mutations, failures, itemCount)
	return &CartMetrics{
		mutations: mutations,
		failures:  failures,
		itemCount: itemCount,
	}
}

// IncMutation counts a persisted mutation.
func (c *CartMetrics) IncMutation(op enums.CartOperation) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(string(op))).Inc()
}

// IncFailure counts a mutation whose snapshot could not be saved.
func (c *CartMetrics) IncFailure(op enums.CartOperation) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(string(op))).Inc()
}

// ObserveItemCount records the cart's item count after a mutation.
func (c *CartMetrics) ObserveItemCount(count int) {
	if c == nil || c.itemCount == nil {
		return
	}
	c.itemCount.Observe(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
