package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ericleon/storefront/internal/domain"
)

// itemRecord — строка order_items без read-model полей.
type itemRecord struct {
	id              int64
	orderID         int64
	productID       int64
	qty             int32
	priceAtPurchase int64
}

// orderRecord — заголовок заказа.
type orderRecord struct {
	id        int64
	createdAt time.Time
}

// outboxRecord хранит сообщение и служебные поля.
type outboxRecord struct {
	msg        domain.OutboxMessage
	status     string
	attemptCnt int
	createdAt  time.Time
	updatedAt  time.Time
}

// Store — in-memory реализация всех контрактов хранилища для локальной
// разработки и тестов. Один мьютекс на всё состояние: WithinTx удерживает его
// на всю транзакцию, что эквивалентно строковым блокировкам по строгости.
type Store struct {
	mu sync.Mutex

	products map[int64]domain.Product
	orders   map[int64]orderRecord
	items    map[int64][]itemRecord // по orderID
	outbox   map[string]*outboxRecord

	nextProductID int64
	nextOrderID   int64
	nextItemID    int64

	// ops считает обращения к хранилищу; тесты проверяют по нему,
	// что валидация входа не открывает транзакцию.
	ops int64
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		products: make(map[int64]domain.Product),
		orders:   make(map[int64]orderRecord),
		items:    make(map[int64][]itemRecord),
		outbox:   make(map[string]*outboxRecord),
	}
}

// OpCount возвращает число выполненных операций хранилища.
func (s *Store) OpCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops
}

// snapshot копирует всё состояние для отката транзакции.
type snapshot struct {
	products map[int64]domain.Product
	orders   map[int64]orderRecord
	items    map[int64][]itemRecord
	outbox   map[string]*outboxRecord

	nextProductID int64
	nextOrderID   int64
	nextItemID    int64
}

func (s *Store) takeSnapshot() snapshot {
	snap := snapshot{
		products:      make(map[int64]domain.Product, len(s.products)),
		orders:        make(map[int64]orderRecord, len(s.orders)),
		items:         make(map[int64][]itemRecord, len(s.items)),
		outbox:        make(map[string]*outboxRecord, len(s.outbox)),
		nextProductID: s.nextProductID,
		nextOrderID:   s.nextOrderID,
		nextItemID:    s.nextItemID,
	}
	for id, p := range s.products {
		snap.products[id] = p
	}
	for id, o := range s.orders {
		snap.orders[id] = o
	}
	for id, list := range s.items {
		copied := make([]itemRecord, len(list))
		copy(copied, list)
		snap.items[id] = copied
	}
	for id, rec := range s.outbox {
		recCopy := *rec
		snap.outbox[id] = &recCopy
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.orders = snap.orders
	s.items = snap.items
	s.outbox = snap.outbox
	s.nextProductID = snap.nextProductID
	s.nextOrderID = snap.nextOrderID
	s.nextItemID = snap.nextItemID
}

// WithinTx выполняет fn атомарно: при ошибке fn или отменённом контексте
// состояние откатывается к снимку, взятому на входе.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.OrderTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.takeSnapshot()
	err := fn(&memTx{store: s})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// memTx работает с состоянием Store под уже взятым мьютексом.
type memTx struct {
	store *Store
}

func (t *memTx) GetProductForUpdate(_ context.Context, id int64) (domain.Product, error) {
	t.store.ops++
	product, ok := t.store.products[id]
	if !ok {
		return domain.Product{}, &domain.NotFoundError{Kind: "product", ID: id}
	}
	return product, nil
}

func (t *memTx) DecrementStock(_ context.Context, id int64, qty int32) error {
	t.store.ops++
	product, ok := t.store.products[id]
	if !ok {
		return &domain.NotFoundError{Kind: "product", ID: id}
	}
	if product.StockQty < qty {
		// Эквивалент CHECK (stock_qty >= 0): сюда можно попасть только при
		// дефекте проверки доступности.
		return &domain.InsufficientStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Requested: qty,
			Available: product.StockQty,
		}
	}
	product.StockQty -= qty
	t.store.products[id] = product
	return nil
}

func (t *memTx) CreateOrderHeader(_ context.Context) (int64, time.Time, error) {
	t.store.ops++
	t.store.nextOrderID++
	id := t.store.nextOrderID
	createdAt := time.Now().UTC()
	t.store.orders[id] = orderRecord{id: id, createdAt: createdAt}
	return id, createdAt, nil
}

func (t *memTx) AddOrderItem(_ context.Context, orderID, productID int64, qty int32, priceAtPurchase int64) (int64, error) {
	t.store.ops++
	if _, ok := t.store.orders[orderID]; !ok {
		return 0, &domain.NotFoundError{Kind: "order", ID: orderID}
	}
	t.store.nextItemID++
	record := itemRecord{
		id:              t.store.nextItemID,
		orderID:         orderID,
		productID:       productID,
		qty:             qty,
		priceAtPurchase: priceAtPurchase,
	}
	t.store.items[orderID] = append(t.store.items[orderID], record)
	return record.id, nil
}

func (t *memTx) EnqueueOutbox(_ context.Context, msg domain.OutboxMessage) error {
	t.store.ops++
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	t.store.outbox[msg.ID] = &outboxRecord{
		msg:       msg,
		status:    "pending",
		createdAt: now,
		updatedAt: now,
	}
	return nil
}

var (
	_ domain.OrderStore = (*Store)(nil)
	_ domain.OrderTx    = (*memTx)(nil)
)
