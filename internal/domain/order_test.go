package domain

import "testing"

func TestOrder_TotalCents(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Qty: 3, PriceAtPurchase: 999},
			{Qty: 1, PriceAtPurchase: 4999},
		},
	}

	if got := order.TotalCents(); got != 7996 {
		t.Fatalf("expected total 7996, got %d", got)
	}
	if got := order.ItemCount(); got != 2 {
		t.Fatalf("expected 2 items, got %d", got)
	}
}

func TestOrder_TotalCents_Empty(t *testing.T) {
	var order Order
	if got := order.TotalCents(); got != 0 {
		t.Fatalf("expected total 0, got %d", got)
	}
}
