package domain

import "time"

// Product — товарная позиция каталога.
type Product struct {
	ID int64
	// Name — человекочитаемое название товара.
	Name string
	// SKU — уникальный бизнес-ключ товара.
	SKU string
	// PriceCents — цена за единицу в минимальных денежных единицах.
	PriceCents int64
	// StockQty — остаток на складе; никогда не уходит в минус.
	StockQty  int32
	CreatedAt time.Time
}

// ValidateNew проверяет инварианты нового товара и возвращает список замечаний.
func (p *Product) ValidateNew() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.SKU == "" {
		errs = append(errs, ErrProductSKURequired)
	}
	if p.PriceCents < 0 {
		errs = append(errs, ErrProductPriceNegative)
	}
	if p.StockQty < 0 {
		errs = append(errs, ErrProductStockNegative)
	}

	return errs
}

// ProductPatch описывает частичное обновление товара: nil-поля не трогаются.
type ProductPatch struct {
	PriceCents *int64
	StockQty   *int32
}

// Validate проверяет, что патч не нарушает инварианты цены и остатка.
func (p *ProductPatch) Validate() []error {
	var errs []error

	if p.PriceCents != nil && *p.PriceCents < 0 {
		errs = append(errs, ErrProductPriceNegative)
	}
	if p.StockQty != nil && *p.StockQty < 0 {
		errs = append(errs, ErrProductStockNegative)
	}

	return errs
}

// Допустимые поля сортировки каталога.
const (
	ProductSortByName  = "name"
	ProductSortByPrice = "price_cents"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ProductFilter задаёт параметры выборки каталога.
type ProductFilter struct {
	// Search — подстрока для регистронезависимого поиска по названию.
	Search string
	// SortBy — одно из ProductSortBy*-полей.
	SortBy string
	// SortDir — SortAsc или SortDesc.
	SortDir string
}
