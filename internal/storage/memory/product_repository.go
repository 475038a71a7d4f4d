package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ericleon/storefront/internal/domain"
)

type productRepository struct {
	store *Store
}

// NewProductRepository создаёт репозиторий товаров поверх общего состояния.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{store: store}
}

// Create сохраняет новый товар, проверяя уникальность SKU.
func (r *productRepository) Create(_ context.Context, product domain.Product) (domain.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++

	for _, existing := range s.products {
		if existing.SKU == product.SKU {
			return domain.Product{}, &domain.AlreadyExistsError{SKU: product.SKU}
		}
	}

	s.nextProductID++
	product.ID = s.nextProductID
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	s.products[product.ID] = product
	return product, nil
}

// Get возвращает товар или NotFoundError.
func (r *productRepository) Get(_ context.Context, id int64) (domain.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++

	product, ok := s.products[id]
	if !ok {
		return domain.Product{}, &domain.NotFoundError{Kind: "product", ID: id}
	}
	return product, nil
}

// Update применяет частичное обновление цены и остатка.
func (r *productRepository) Update(_ context.Context, id int64, patch domain.ProductPatch) (domain.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++

	product, ok := s.products[id]
	if !ok {
		return domain.Product{}, &domain.NotFoundError{Kind: "product", ID: id}
	}
	if patch.PriceCents != nil {
		product.PriceCents = *patch.PriceCents
	}
	if patch.StockQty != nil {
		product.StockQty = *patch.StockQty
	}
	s.products[id] = product
	return product, nil
}

// List возвращает товары по фильтру. Поиск — регистронезависимая подстрока
// названия; сортировка — по валидированным вызывающим полям.
func (r *productRepository) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++

	search := strings.ToLower(filter.Search)
	result := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		if search != "" && !strings.Contains(strings.ToLower(product.Name), search) {
			continue
		}
		result = append(result, product)
	}

	desc := filter.SortDir == domain.SortDesc
	sort.Slice(result, func(i, j int) bool {
		var less bool
		switch filter.SortBy {
		case domain.ProductSortByPrice:
			if result[i].PriceCents != result[j].PriceCents {
				less = result[i].PriceCents < result[j].PriceCents
			} else {
				less = result[i].ID < result[j].ID
			}
		default:
			if result[i].Name != result[j].Name {
				less = result[i].Name < result[j].Name
			} else {
				less = result[i].ID < result[j].ID
			}
		}
		if desc {
			return !less
		}
		return less
	})

	return result, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
