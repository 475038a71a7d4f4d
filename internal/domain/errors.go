package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего названия товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отсутствующего SKU.
	ErrProductSKURequired = errors.New("product sku is required")
	// Ошибка отрицательной цены товара.
	ErrProductPriceNegative = errors.New("price_cents must be non-negative")
	// Ошибка отрицательного остатка.
	ErrProductStockNegative = errors.New("stock_qty must be non-negative")
	// ErrConflict сигнализирует о конфликте конкурентных транзакций
	// (serialization failure, deadlock). Операцию безопасно повторить.
	ErrConflict = errors.New("concurrent modification conflict")
	// ErrOutboxMessageNotFound возвращается при обновлении статуса
	// несуществующего outbox-сообщения.
	ErrOutboxMessageNotFound = errors.New("outbox message not found")
)

// ValidationError — некорректный вход, который отбрасывается до обращения к хранилищу.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// NotFoundError возвращается, когда запись отсутствует в хранилище.
// Kind — "product" или "order".
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// InsufficientStockError несёт данные для сообщения пользователю:
// какой товар, сколько запрошено и сколько доступно.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (product %d): requested %d, available %d",
		e.Name, e.ProductID, e.Requested, e.Available)
}

// AlreadyExistsError возвращается при попытке создать товар с занятым SKU.
type AlreadyExistsError struct {
	SKU string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("product with sku %q already exists", e.SKU)
}

// IsValidation проверяет, является ли ошибка ошибкой валидации входа.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound проверяет, является ли ошибка отсутствием записи.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInsufficientStock проверяет, является ли ошибка нехваткой остатка.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

// IsAlreadyExists проверяет, является ли ошибка дублем SKU.
func IsAlreadyExists(err error) bool {
	var target *AlreadyExistsError
	return errors.As(err, &target)
}

// IsConflict проверяет, является ли ошибка конфликтом конкурентных транзакций.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
