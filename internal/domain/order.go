package domain

import "time"

// OrderLine — одна строка запроса на создание заказа.
type OrderLine struct {
	ProductID int64
	Qty       int32
}

// OrderItem — зафиксированная позиция заказа.
// Кортеж (OrderID, ProductID, Qty, PriceAtPurchase) неизменяем после коммита.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	// ProductName и SKU подтягиваются из каталога при сборке read-модели.
	ProductName string
	SKU         string
	Qty         int32
	// PriceAtPurchase — цена за единицу, замороженная в момент оформления.
	// Последующие изменения цены товара на неё не влияют.
	PriceAtPurchase int64
}

// Order агрегирует заголовок заказа и его позиции.
type Order struct {
	ID        int64
	CreatedAt time.Time
	Items     []OrderItem
}

// TotalCents считает сумму заказа: Σ(price_at_purchase × qty).
func (o *Order) TotalCents() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.PriceAtPurchase * int64(item.Qty)
	}
	return total
}

// ItemCount возвращает число позиций заказа.
func (o *Order) ItemCount() int {
	return len(o.Items)
}
