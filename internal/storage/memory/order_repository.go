package memory

import (
	"context"
	"sort"

	"github.com/ericleon/storefront/internal/domain"
)

type orderRepository struct {
	store *Store
}

// NewOrderRepository создаёт read-модель заказов поверх общего состояния.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{store: store}
}

// GetWithItems собирает read-модель заказа: позиции обогащаются текущим
// названием и SKU товара, цена остаётся замороженной из order_items.
func (r *orderRepository) GetWithItems(_ context.Context, id int64) (domain.Order, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++

	record, ok := s.orders[id]
	if !ok {
		return domain.Order{}, &domain.NotFoundError{Kind: "order", ID: id}
	}
	return s.assembleOrder(record), nil
}

// List возвращает заказы от новых к старым с пагинацией.
func (r *orderRepository) List(_ context.Context, limit, offset int) ([]domain.Order, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++

	records := make([]orderRecord, 0, len(s.orders))
	for _, record := range s.orders {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].createdAt.Equal(records[j].createdAt) {
			return records[i].createdAt.After(records[j].createdAt)
		}
		return records[i].id > records[j].id
	})

	if offset >= len(records) {
		return []domain.Order{}, nil
	}
	records = records[offset:]
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	result := make([]domain.Order, 0, len(records))
	for _, record := range records {
		result = append(result, s.assembleOrder(record))
	}
	return result, nil
}

func (s *Store) assembleOrder(record orderRecord) domain.Order {
	order := domain.Order{ID: record.id, CreatedAt: record.createdAt}
	for _, item := range s.items[record.id] {
		product := s.products[item.productID]
		order.Items = append(order.Items, domain.OrderItem{
			ID:              item.id,
			OrderID:         item.orderID,
			ProductID:       item.productID,
			ProductName:     product.Name,
			SKU:             product.SKU,
			Qty:             item.qty,
			PriceAtPurchase: item.priceAtPurchase,
		})
	}
	return order
}

var _ domain.OrderRepository = (*orderRepository)(nil)
