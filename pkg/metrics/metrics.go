package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records counter metadata for the order lifecycle.
type OrderMetrics struct {
	created   *prometheus.CounterVec
	corrected *prometheus.CounterVec
	sales     *prometheus.CounterVec
}

// NewOrderMetrics registers the order lifecycle metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, by payment method.",
	}, []string{"method"})
	corrected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_corrected_total",
		Help: "Corrective order actions (edit, delete, refund).",
	}, []string{"action"})
	sales := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_amount_total",
		Help: "Gross sales amount at creation time, by payment method.",
	}, []string{"method"})
	reg.MustRegister(created, corrected, sales)
	return &OrderMetrics{
		created:   created,
		corrected: corrected,
		sales:     sales,
	}
}

// IncCreated counts one created order and its total.
func (m *OrderMetrics) IncCreated(method string, total int) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(method)).Inc()
	m.sales.WithLabelValues(normalizeLabel(method)).Add(float64(total))
}

// IncCorrected counts one corrective action.
func (m *OrderMetrics) IncCorrected(action string) {
	if m == nil || m.corrected == nil {
		return
	}
	m.corrected.WithLabelValues(normalizeLabel(action)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
