package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type StorefrontMetrics struct {
	Toggles       *prometheus.CounterVec
	SilentReverts *prometheus.CounterVec
	OrdersPlaced  prometheus.Counter
	OrdersFailed  prometheus.Counter
}

func New(reg prometheus.Registerer) *StorefrontMetrics {
	toggles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "selection_toggles_total",
		Help:      "Membership toggles applied optimistically.",
	}, []string{"set"})
	reverts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "selection_silent_reverts_total",
		Help:      "Optimistic toggles reverted after a remote failure.",
	}, []string{"set"})
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "orders_placed_total",
		Help:      "Orders successfully submitted.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "orders_failed_total",
		Help:      "Order submissions that surfaced a persistence failure.",
	})

	reg.MustRegister(toggles, reverts, placed, failed)
	return &StorefrontMetrics{
		Toggles:       toggles,
		SilentReverts: reverts,
		OrdersPlaced:  placed,
		OrdersFailed:  failed,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
