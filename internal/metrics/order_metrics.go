package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Причины отказа CreateOrder для лейбла reason.
const (
	FailReasonValidation        = "validation"
	FailReasonNotFound          = "not_found"
	FailReasonInsufficientStock = "insufficient_stock"
	FailReasonConflict          = "conflict"
	FailReasonStore             = "store"
)

// OrderMetrics содержит метрики транзакционного движка заказов.
type OrderMetrics struct {
	ordersCreated prometheus.Counter
	ordersFailed  *prometheus.CounterVec

	createDuration prometheus.Histogram
	itemsPerOrder  prometheus.Histogram
	orderTotals    prometheus.Histogram

	activeCreates prometheus.Gauge
}

// NewOrderMetrics создаёт и регистрирует метрики движка в default registerer.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Total number of orders committed successfully",
		}),
		ordersFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_failed_total",
			Help: "Total number of rejected or failed order creations by reason",
		}, []string{"reason"}),
		createDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_order_create_duration_seconds",
			Help:    "Duration of the order creation transaction in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		itemsPerOrder: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_order_items_per_order",
			Help:    "Number of line items per committed order",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		orderTotals: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_order_total_cents",
			Help:    "Order totals in minor currency units",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}),
		activeCreates: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "storefront_order_creates_in_flight",
			Help: "Number of order creation transactions currently in flight",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated фиксирует успешный коммит заказа.
func (m *OrderMetrics) RecordOrderCreated(itemCount int, totalCents int64) {
	m.ordersCreated.Inc()
	m.itemsPerOrder.Observe(float64(itemCount))
	m.orderTotals.Observe(float64(totalCents))
}

// RecordOrderFailed увеличивает счётчик отказов по причине.
func (m *OrderMetrics) RecordOrderFailed(reason string) {
	m.ordersFailed.WithLabelValues(reason).Inc()
}

// RecordCreateDuration записывает длительность транзакции создания заказа.
func (m *OrderMetrics) RecordCreateDuration(duration time.Duration) {
	m.createDuration.Observe(duration.Seconds())
}

// RecordCreateStarted увеличивает число активных транзакций.
func (m *OrderMetrics) RecordCreateStarted() {
	m.activeCreates.Inc()
}

// RecordCreateFinished уменьшает число активных транзакций.
func (m *OrderMetrics) RecordCreateFinished() {
	m.activeCreates.Dec()
}
