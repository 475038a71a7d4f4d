package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ericleon/storefront/internal/domain"
	"github.com/ericleon/storefront/internal/storage/memory"
)

func seedProduct(t *testing.T, store *memory.Store, name, sku string, price int64, stock int32) domain.Product {
	t.Helper()
	product, err := memory.NewProductRepository(store).Create(context.Background(), domain.Product{
		Name: name, SKU: sku, PriceCents: price, StockQty: stock,
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestStore_CreateProduct_DuplicateSKU(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "Wireless Mouse", "MOU-001", 2999, 100)

	_, err := memory.NewProductRepository(store).Create(context.Background(), domain.Product{Name: "Other", SKU: "MOU-001"})
	if !domain.IsAlreadyExists(err) {
		t.Fatalf("expected already exists error, got %v", err)
	}
}

func TestStore_UpdateProduct_Patch(t *testing.T) {
	store := memory.NewStore()
	product := seedProduct(t, store, "Desk Lamp LED", "LMP-001", 3499, 80)

	price := int64(2999)
	updated, err := memory.NewProductRepository(store).Update(context.Background(), product.ID, domain.ProductPatch{PriceCents: &price})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PriceCents != 2999 {
		t.Fatalf("expected price 2999, got %d", updated.PriceCents)
	}
	if updated.StockQty != 80 {
		t.Fatalf("stock must be untouched, got %d", updated.StockQty)
	}
}

func TestStore_ListProducts_SearchAndSort(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "Laptop Pro 15", "LAP-001", 129999, 25)
	seedProduct(t, store, "Laptop Stand Aluminium", "STD-001", 2499, 120)
	seedProduct(t, store, "Wireless Mouse", "MOU-001", 2999, 100)

	products, err := memory.NewProductRepository(store).List(context.Background(), domain.ProductFilter{
		Search:  "laptop",
		SortBy:  domain.ProductSortByPrice,
		SortDir: domain.SortDesc,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(products))
	}
	if products[0].SKU != "LAP-001" {
		t.Fatalf("expected most expensive first, got %s", products[0].SKU)
	}
}

func TestStore_WithinTx_RollbackOnError(t *testing.T) {
	store := memory.NewStore()
	product := seedProduct(t, store, "Webcam HD 1080p", "CAM-001", 6999, 60)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := store.WithinTx(ctx, func(tx domain.OrderTx) error {
		if _, _, err := tx.CreateOrderHeader(ctx); err != nil {
			t.Fatalf("header failed: %v", err)
		}
		if err := tx.DecrementStock(ctx, product.ID, 10); err != nil {
			t.Fatalf("decrement failed: %v", err)
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	after, err := memory.NewProductRepository(store).Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if after.StockQty != 60 {
		t.Fatalf("expected rollback to stock 60, got %d", after.StockQty)
	}
	orders, err := memory.NewOrderRepository(store).List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders after rollback, got %d", len(orders))
	}
}

func TestStore_WithinTx_CommitVisibleToReadModel(t *testing.T) {
	store := memory.NewStore()
	product := seedProduct(t, store, "Desk Mat XXL", "MAT-001", 1999, 90)
	ctx := context.Background()

	var orderID int64
	err := store.WithinTx(ctx, func(tx domain.OrderTx) error {
		id, _, err := tx.CreateOrderHeader(ctx)
		if err != nil {
			return err
		}
		orderID = id
		if _, err := tx.AddOrderItem(ctx, id, product.ID, 2, product.PriceCents); err != nil {
			return err
		}
		return tx.DecrementStock(ctx, product.ID, 2)
	})
	if err != nil {
		t.Fatalf("tx failed: %v", err)
	}

	order, err := memory.NewOrderRepository(store).GetWithItems(ctx, orderID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if order.TotalCents() != 2*1999 {
		t.Fatalf("expected total %d, got %d", 2*1999, order.TotalCents())
	}
	if order.Items[0].SKU != "MAT-001" {
		t.Fatalf("expected joined sku MAT-001, got %s", order.Items[0].SKU)
	}
}

func TestStore_Outbox_RequeueFailed(t *testing.T) {
	store := memory.NewStore()
	outbox := memory.NewOutboxRepository(store)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(tx domain.OrderTx) error {
		return tx.EnqueueOutbox(ctx, domain.OutboxMessage{
			AggregateType: "order", AggregateID: "1", EventType: "order.created", Payload: []byte(`{}`),
		})
	})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	pending, err := outbox.PullPending(ctx, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected 1 pending, got %d (err %v)", len(pending), err)
	}
	if err := outbox.MarkFailed(ctx, pending[0].ID); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	requeued, err := outbox.RequeueFailed(ctx, 0)
	if err != nil {
		t.Fatalf("requeue failed: %v", err)
	}
	if requeued != 1 {
		t.Fatalf("expected 1 requeued, got %d", requeued)
	}
	stats, err := outbox.Stats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PendingCount != 1 {
		t.Fatalf("expected pending count 1, got %d", stats.PendingCount)
	}
}
