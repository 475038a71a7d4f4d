package domain

import (
	"context"
	"time"
)

// OutboxMessage хранит данные публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository — сторона outbox, которую видит publish-worker.
// Запись новых событий идёт только через OrderTx.EnqueueOutbox.
type OutboxRepository interface {
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
	// RequeueFailed возвращает failed-события в pending для повторной публикации.
	RequeueFailed(ctx context.Context, limit int) (int, error)
}
