package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ericleon/storefront/internal/domain"
)

type outboxRepository struct {
	store *Store
}

// NewOutboxRepository создаёт in-memory реализацию OutboxRepository
// поверх общего состояния.
func NewOutboxRepository(store *Store) domain.OutboxRepository {
	return &outboxRepository{store: store}
}

// PullPending возвращает до limit сообщений со статусом `pending`,
// от старых к новым.
func (r *outboxRepository) PullPending(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++

	if limit <= 0 {
		limit = 100
	}

	pending := make([]*outboxRecord, 0, len(s.outbox))
	for _, rec := range s.outbox {
		if rec.status == "pending" {
			pending = append(pending, rec)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].createdAt.Equal(pending[j].createdAt) {
			return pending[i].createdAt.Before(pending[j].createdAt)
		}
		return pending[i].msg.ID < pending[j].msg.ID
	})

	if len(pending) > limit {
		pending = pending[:limit]
	}
	result := make([]domain.OutboxMessage, 0, len(pending))
	for _, rec := range pending {
		result = append(result, rec.msg)
	}
	return result, nil
}

// Stats возвращает размер backlog и возраст самого старого pending-события.
func (r *outboxRepository) Stats(_ context.Context) (domain.OutboxStats, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++

	var stats domain.OutboxStats
	for _, rec := range s.outbox {
		if rec.status != "pending" {
			continue
		}
		stats.PendingCount++
		if stats.OldestPendingAt.IsZero() || rec.createdAt.Before(stats.OldestPendingAt) {
			stats.OldestPendingAt = rec.createdAt
		}
	}
	return stats, nil
}

// MarkSent помечает событие опубликованным.
func (r *outboxRepository) MarkSent(_ context.Context, id string) error {
	return r.markStatus(id, "sent")
}

// MarkFailed фиксирует неудачную публикацию.
func (r *outboxRepository) MarkFailed(_ context.Context, id string) error {
	return r.markStatus(id, "failed")
}

func (r *outboxRepository) markStatus(id, status string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++

	rec, ok := s.outbox[id]
	if !ok {
		return domain.ErrOutboxMessageNotFound
	}
	rec.status = status
	rec.attemptCnt++
	rec.updatedAt = time.Now().UTC()
	return nil
}

// RequeueFailed возвращает failed-события в pending.
func (r *outboxRepository) RequeueFailed(_ context.Context, limit int) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++

	requeued := 0
	for _, rec := range s.outbox {
		if rec.status != "failed" {
			continue
		}
		rec.status = "pending"
		rec.updatedAt = time.Now().UTC()
		requeued++
		if limit > 0 && requeued >= limit {
			break
		}
	}
	return requeued, nil
}

var _ domain.OutboxRepository = (*outboxRepository)(nil)
