// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OrderMetrics 覆盖订单编排链路的关键计数。
type OrderMetrics struct {
	OrdersCreated    prometheus.Counter
	OrdersCancelled  prometheus.Counter
	EnvelopeHops     prometheus.Counter
	NotifyFailures   prometheus.Counter
	CartFallbackHits prometheus.Counter
}

// NewOrderMetrics 注册并返回订单相关指标。
func NewOrderMetrics() *OrderMetrics {
	m := &OrderMetrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mall", Subsystem: "order",
			Name: "orders_created_total",
			Help: "Total number of orders created.",
		}),
		OrdersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mall", Subsystem: "order",
			Name: "orders_cancelled_total",
			Help: "Total number of orders cancelled by the timeout pipeline.",
		}),
		EnvelopeHops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mall", Subsystem: "order",
			Name: "delay_envelope_hops_total",
			Help: "Total number of delay envelope re-publications.",
		}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mall", Subsystem: "order",
			Name: "notification_publish_failures_total",
			Help: "Total number of swallowed notification publish failures.",
		}),
		CartFallbackHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mall", Subsystem: "order",
			Name: "cart_fallback_hits_total",
			Help: "Checkouts resolved through the fallback catalog.",
		}),
	}
	prometheus.MustRegister(m.OrdersCreated, m.OrdersCancelled, m.EnvelopeHops, m.NotifyFailures, m.CartFallbackHits)
	return m
}

// Handler 暴露 /metrics。
func Handler() http.Handler {
	return promhttp.Handler()
}
