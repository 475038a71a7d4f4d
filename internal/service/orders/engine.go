package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ericleon/storefront/internal/domain"
	"github.com/ericleon/storefront/internal/metrics"
)

// Engine выполняет транзакцию создания заказа: проверка остатков по всем
// позициям, заморозка цен и списание — всё в одной атомарной единице работы.
type Engine struct {
	store   domain.OrderStore
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

// NewEngine создаёт движок поверх транзакционного хранилища.
func NewEngine(store domain.OrderStore, logger *log.Entry) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "order-engine")
	}
	return &Engine{
		store:   store,
		logger:  logger,
		metrics: metrics.NewOrderMetrics(),
	}
}

// NewEngineWithoutMetrics создаёт движок без метрик (для тестов).
func NewEngineWithoutMetrics(store domain.OrderStore, logger *log.Entry) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "order-engine")
	}
	return &Engine{
		store:  store,
		logger: logger,
	}
}

// lockedProduct — товар, строка которого заблокирована до конца транзакции,
// и накопленный спрос по нему со всех строк заказа.
type lockedProduct struct {
	product domain.Product
	demand  int32
}

// CreateOrder проводит заказ целиком или не проводит вовсе.
//
// Протокол двухфазный: сначала все товары читаются с блокировкой строки и
// проверяются на доступность, и только после этого начинаются записи.
// Повторяющиеся строки одного товара суммируются локально, поэтому проверка
// остатка детерминирована и не зависит от уровня изоляции хранилища.
//
// На выходе — закоммиченный заказ с позициями и суммой, совпадающий с тем,
// что вернуло бы последующее чтение read-модели. Любая ошибка означает ноль
// персистентных эффектов.
func (e *Engine) CreateOrder(ctx context.Context, lines []domain.OrderLine) (domain.Order, error) {
	if err := validateLines(lines); err != nil {
		e.recordFailure(metrics.FailReasonValidation)
		return domain.Order{}, err
	}

	if e.metrics != nil {
		e.metrics.RecordCreateStarted()
		defer e.metrics.RecordCreateFinished()
	}
	started := time.Now()

	var order domain.Order
	err := e.store.WithinTx(ctx, func(tx domain.OrderTx) error {
		locked, err := e.checkAvailability(ctx, tx, lines)
		if err != nil {
			return err
		}

		orderID, createdAt, err := tx.CreateOrderHeader(ctx)
		if err != nil {
			return fmt.Errorf("create order header: %w", err)
		}

		items := make([]domain.OrderItem, 0, len(lines))
		for _, line := range lines {
			product := locked[line.ProductID].product
			itemID, err := tx.AddOrderItem(ctx, orderID, product.ID, line.Qty, product.PriceCents)
			if err != nil {
				return fmt.Errorf("add order item for product %d: %w", product.ID, err)
			}
			if err := tx.DecrementStock(ctx, product.ID, line.Qty); err != nil {
				return fmt.Errorf("decrement stock for product %d: %w", product.ID, err)
			}
			items = append(items, domain.OrderItem{
				ID:              itemID,
				OrderID:         orderID,
				ProductID:       product.ID,
				ProductName:     product.Name,
				SKU:             product.SKU,
				Qty:             line.Qty,
				PriceAtPurchase: product.PriceCents,
			})
		}

		order = domain.Order{ID: orderID, CreatedAt: createdAt, Items: items}
		return e.enqueueCreatedEvent(ctx, tx, &order)
	})
	if err != nil {
		e.recordFailure(failureReason(err))
		return domain.Order{}, err
	}

	if e.metrics != nil {
		e.metrics.RecordOrderCreated(order.ItemCount(), order.TotalCents())
		e.metrics.RecordCreateDuration(time.Since(started))
	}
	e.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"items":       order.ItemCount(),
		"total_cents": order.TotalCents(),
	}).Info("заказ создан")

	return order, nil
}

// checkAvailability блокирует каждую уникальную товарную строку один раз
// (в порядке первого вхождения) и сверяет суммарный спрос с остатком.
// До возврата из этой функции не выполняется ни одной записи.
func (e *Engine) checkAvailability(
	ctx context.Context,
	tx domain.OrderTx,
	lines []domain.OrderLine,
) (map[int64]*lockedProduct, error) {
	locked := make(map[int64]*lockedProduct, len(lines))

	for _, line := range lines {
		lp, ok := locked[line.ProductID]
		if !ok {
			product, err := tx.GetProductForUpdate(ctx, line.ProductID)
			if err != nil {
				return nil, err
			}
			lp = &lockedProduct{product: product}
			locked[line.ProductID] = lp
		}

		lp.demand += line.Qty
		if lp.demand > lp.product.StockQty {
			return nil, &domain.InsufficientStockError{
				ProductID: lp.product.ID,
				Name:      lp.product.Name,
				Requested: lp.demand,
				Available: lp.product.StockQty,
			}
		}
	}

	return locked, nil
}

func (e *Engine) enqueueCreatedEvent(ctx context.Context, tx domain.OrderTx, order *domain.Order) error {
	payload, err := json.Marshal(struct {
		OrderID    int64     `json:"order_id"`
		TotalCents int64     `json:"total_cents"`
		ItemCount  int       `json:"item_count"`
		CreatedAt  time.Time `json:"created_at"`
	}{
		OrderID:    order.ID,
		TotalCents: order.TotalCents(),
		ItemCount:  order.ItemCount(),
		CreatedAt:  order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order.created payload: %w", err)
	}

	msg := domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   strconv.FormatInt(order.ID, 10),
		EventType:     "order.created",
		Payload:       payload,
	}
	if err := tx.EnqueueOutbox(ctx, msg); err != nil {
		return fmt.Errorf("enqueue order.created event: %w", err)
	}
	return nil
}

// validateLines отсекает некорректный вход до открытия транзакции.
func validateLines(lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return &domain.ValidationError{Field: "items", Reason: "must contain at least one item"}
	}
	for i, line := range lines {
		if line.ProductID <= 0 {
			return &domain.ValidationError{
				Field:  fmt.Sprintf("items[%d].product_id", i),
				Reason: "must be a positive product reference",
			}
		}
		if line.Qty <= 0 {
			return &domain.ValidationError{
				Field:  fmt.Sprintf("items[%d].qty", i),
				Reason: "must be greater than zero",
			}
		}
	}
	return nil
}

func (e *Engine) recordFailure(reason string) {
	if e.metrics != nil {
		e.metrics.RecordOrderFailed(reason)
	}
}

func failureReason(err error) string {
	switch {
	case domain.IsNotFound(err):
		return metrics.FailReasonNotFound
	case domain.IsInsufficientStock(err):
		return metrics.FailReasonInsufficientStock
	case domain.IsConflict(err):
		return metrics.FailReasonConflict
	default:
		return metrics.FailReasonStore
	}
}
