package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/ericleon/storefront/internal/domain"
)

func TestOrderTxStore_PostgresCommit(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	products := NewProductRepository(store)
	txStore := NewOrderStore(store)
	ctx := context.Background()

	product, err := products.Create(ctx, domain.Product{
		Name: "USB-C Hub", SKU: "HUB-001", PriceCents: 4999, StockQty: 75,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	var orderID int64
	err = txStore.WithinTx(ctx, func(tx domain.OrderTx) error {
		locked, err := tx.GetProductForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		if err := tx.DecrementStock(ctx, locked.ID, 3); err != nil {
			return err
		}

		id, _, err := tx.CreateOrderHeader(ctx)
		if err != nil {
			return err
		}
		orderID = id

		if _, err := tx.AddOrderItem(ctx, orderID, locked.ID, 3, locked.PriceCents); err != nil {
			return err
		}
		return tx.EnqueueOutbox(ctx, domain.OutboxMessage{
			AggregateType: "order",
			AggregateID:   "1",
			EventType:     "order.created",
			Payload:       []byte(`{"order_id":1}`),
		})
	})
	if err != nil {
		t.Fatalf("order transaction: %v", err)
	}

	// Заказ читается вместе с позициями, обогащёнными каталогом
	order, err := NewOrderRepository(store).GetWithItems(ctx, orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.Qty != 3 || item.PriceAtPurchase != 4999 || item.SKU != "HUB-001" || item.ProductName != "USB-C Hub" {
		t.Fatalf("unexpected order item: %+v", item)
	}

	// Остаток списан той же транзакцией
	after, err := products.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product after order: %v", err)
	}
	if after.StockQty != 72 {
		t.Fatalf("expected stock 72, got %d", after.StockQty)
	}

	// Событие попало в outbox
	pending, err := NewOutboxRepository(store).PullPending(ctx, 10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "order.created" {
		t.Fatalf("unexpected outbox content: %+v", pending)
	}
}

func TestOrderTxStore_PostgresRollback(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	products := NewProductRepository(store)
	txStore := NewOrderStore(store)
	ctx := context.Background()

	product, err := products.Create(ctx, domain.Product{
		Name: "Monitor 27", SKU: "MON-001", PriceCents: 39999, StockQty: 30,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	boom := errors.New("line validation failed")
	err = txStore.WithinTx(ctx, func(tx domain.OrderTx) error {
		if err := tx.DecrementStock(ctx, product.ID, 10); err != nil {
			return err
		}
		if _, _, err := tx.CreateOrderHeader(ctx); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	// Откат: ни заказа, ни списания, ни событий
	after, err := products.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product after rollback: %v", err)
	}
	if after.StockQty != 30 {
		t.Fatalf("rollback must restore stock, got %d", after.StockQty)
	}

	orders, err := NewOrderRepository(store).List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders after rollback, got %d", len(orders))
	}

	pending, err := NewOutboxRepository(store).PullPending(ctx, 10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty outbox after rollback, got %d", len(pending))
	}
}

func TestOrderTx_PostgresLockedReadAndMissingProduct(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	txStore := NewOrderStore(store)
	ctx := context.Background()

	err := txStore.WithinTx(ctx, func(tx domain.OrderTx) error {
		_, err := tx.GetProductForUpdate(ctx, 424242)
		return err
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError for missing product, got %v", err)
	}
}
