package mymetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

type Metrics struct {
	namespace  string
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_operations_total",
		Help:      "Total number of cart operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	registry.MustRegister(
		operations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		namespace:  namespace,
		registry:   registry,
		operations: operations,
	}
}

func (m *Metrics) Observe(operation string, outcome string) {
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// RegisterCartGauges exposes the current cart size and quantity, read at scrape time.
func (m *Metrics) RegisterCartGauges(size func() int, totalQuantity func() int) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      "cart_distinct_products",
			Help:      "Number of distinct products in the cart.",
		}, func() float64 { return float64(size()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      "cart_total_quantity",
			Help:      "Sum of all quantities in the cart.",
		}, func() float64 { return float64(totalQuantity()) }),
	)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
