package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewOrderMetrics_RegistersAndRecords(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.RecordCreateStarted()
	m.RecordOrderCreated(2, 7996)
	m.RecordCreateDuration(15 * time.Millisecond)
	m.RecordOrderFailed(FailReasonInsufficientStock)
	m.RecordCreateFinished()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"storefront_orders_created_total",
		"storefront_orders_failed_total",
		"storefront_order_create_duration_seconds",
	} {
		if !names[want] {
			t.Fatalf("expected metric family %s, got %v", want, names)
		}
	}
}

func TestNewOrderMetrics_DoubleRegistrationReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newOrderMetricsWithRegisterer(registry)
	second := newOrderMetricsWithRegisterer(registry)

	first.RecordOrderCreated(1, 100)
	second.RecordOrderCreated(1, 100)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "storefront_orders_created_total" {
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 2 {
				t.Fatalf("expected shared counter value 2, got %v", got)
			}
			return
		}
	}
	t.Fatal("storefront_orders_created_total not found")
}
