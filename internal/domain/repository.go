package domain

import (
	"context"
	"time"
)

// ProductRepository описывает требования к хранилищу каталога.
type ProductRepository interface {
	// Create сохраняет новый товар и возвращает его с присвоенным ID.
	// Занятый SKU приводит к AlreadyExistsError.
	Create(ctx context.Context, product Product) (Product, error)
	// Get возвращает товар по идентификатору или NotFoundError.
	Get(ctx context.Context, id int64) (Product, error)
	// Update применяет частичное обновление и возвращает свежее состояние.
	Update(ctx context.Context, id int64, patch ProductPatch) (Product, error)
	// List возвращает товары по фильтру. Поля сортировки валидирует вызывающий.
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
}

// OrderRepository — read-модель заказов.
type OrderRepository interface {
	// GetWithItems возвращает заказ с позициями, обогащёнными названием и SKU
	// товара, или NotFoundError.
	GetWithItems(ctx context.Context, id int64) (Order, error)
	// List возвращает заказы от новых к старым с пагинацией.
	List(ctx context.Context, limit, offset int) ([]Order, error)
}

// OrderStore открывает атомарную единицу работы для создания заказа.
// Любая ошибка из fn откатывает все её эффекты; отмена ctx — тоже.
type OrderStore interface {
	WithinTx(ctx context.Context, fn func(tx OrderTx) error) error
}

// OrderTx — операции, доступные внутри одной транзакции создания заказа.
type OrderTx interface {
	// GetProductForUpdate читает товар и держит блокировку строки до конца
	// транзакции, исключая гонку проверки остатка с конкурентным списанием.
	GetProductForUpdate(ctx context.Context, id int64) (Product, error)
	// DecrementStock уменьшает остаток товара на qty. Остаток не может уйти
	// в минус: нарушение означает дефект вызывающего кода.
	DecrementStock(ctx context.Context, id int64, qty int32) error
	// CreateOrderHeader создаёт пустой заголовок заказа.
	CreateOrderHeader(ctx context.Context) (orderID int64, createdAt time.Time, err error)
	// AddOrderItem фиксирует позицию с замороженной ценой.
	AddOrderItem(ctx context.Context, orderID, productID int64, qty int32, priceAtPurchase int64) (int64, error)
	// EnqueueOutbox кладёт событие в transactional outbox той же транзакцией.
	EnqueueOutbox(ctx context.Context, msg OutboxMessage) error
}
