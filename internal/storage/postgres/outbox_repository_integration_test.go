package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ericleon/storefront/internal/domain"
)

func enqueueOutboxForIntegrationTest(t *testing.T, store *Store, n int) []string {
	t.Helper()

	ids := make([]string, 0, n)
	err := NewOrderStore(store).WithinTx(context.Background(), func(tx domain.OrderTx) error {
		for i := 0; i < n; i++ {
			msg := domain.OutboxMessage{
				AggregateType: "order",
				AggregateID:   fmt.Sprintf("%d", i+1),
				EventType:     "order.created",
				Payload:       []byte(fmt.Sprintf(`{"order_id":%d}`, i+1)),
			}
			if err := tx.EnqueueOutbox(context.Background(), msg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("enqueue outbox messages: %v", err)
	}

	pending, err := NewOutboxRepository(store).PullPending(context.Background(), n)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	for _, msg := range pending {
		ids = append(ids, msg.ID)
	}
	return ids
}

func TestOutboxRepository_PostgresMarkAndRequeue(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOutboxRepository(store)
	ctx := context.Background()

	ids := enqueueOutboxForIntegrationTest(t, store, 3)
	if len(ids) != 3 {
		t.Fatalf("expected 3 pending messages, got %d", len(ids))
	}

	if err := repo.MarkSent(ctx, ids[0]); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if err := repo.MarkFailed(ctx, ids[1]); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	pending, err := repo.PullPending(ctx, 10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != ids[2] {
		t.Fatalf("unexpected pending set: %+v", pending)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PendingCount != 1 {
		t.Fatalf("expected 1 pending in stats, got %d", stats.PendingCount)
	}
	if stats.OldestPendingAt.IsZero() {
		t.Fatal("expected oldest pending timestamp")
	}

	// failed-событие возвращается в очередь и снова публикуемо
	requeued, err := repo.RequeueFailed(ctx, 10)
	if err != nil {
		t.Fatalf("requeue failed: %v", err)
	}
	if requeued != 1 {
		t.Fatalf("expected 1 requeued, got %d", requeued)
	}

	pending, err = repo.PullPending(ctx, 10)
	if err != nil {
		t.Fatalf("pull pending after requeue: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending after requeue, got %d", len(pending))
	}
}

func TestOutboxRepository_PostgresMissingMessage(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOutboxRepository(store)
	ctx := context.Background()

	err := repo.MarkSent(ctx, "7b6e55e5-33a1-4b6e-9f60-000000000000")
	if !errors.Is(err, domain.ErrOutboxMessageNotFound) {
		t.Fatalf("expected ErrOutboxMessageNotFound, got %v", err)
	}
}
