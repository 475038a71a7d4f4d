package catalog

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ericleon/storefront/internal/domain"
)

// Service — операции каталога: создание, частичное обновление и выборка
// товаров. Остатки товаров этот сервис меняет только напрямую через патч;
// списание при заказе — зона ответственности движка заказов.
type Service struct {
	repo   domain.ProductRepository
	logger *log.Entry
}

// NewService создаёт сервис каталога.
func NewService(repo domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "catalog")
	}
	return &Service{repo: repo, logger: logger}
}

// CreateInput — данные нового товара.
type CreateInput struct {
	Name       string
	SKU        string
	PriceCents int64
	StockQty   int32
}

// Create валидирует и сохраняет новый товар.
func (s *Service) Create(ctx context.Context, input CreateInput) (domain.Product, error) {
	product := domain.Product{
		Name:       strings.TrimSpace(input.Name),
		SKU:        strings.TrimSpace(input.SKU),
		PriceCents: input.PriceCents,
		StockQty:   input.StockQty,
	}
	if errs := product.ValidateNew(); len(errs) > 0 {
		return domain.Product{}, &domain.ValidationError{Field: "product", Reason: joinErrors(errs)}
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.WithFields(log.Fields{
		"product_id": created.ID,
		"sku":        created.SKU,
	}).Info("товар добавлен в каталог")
	return created, nil
}

// Update применяет частичное обновление цены и/или остатка.
func (s *Service) Update(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, &domain.ValidationError{Field: "id", Reason: "must be a positive product reference"}
	}
	if errs := patch.Validate(); len(errs) > 0 {
		return domain.Product{}, &domain.ValidationError{Field: "product", Reason: joinErrors(errs)}
	}
	return s.repo.Update(ctx, id, patch)
}

// Get возвращает товар по идентификатору.
func (s *Service) Get(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, &domain.ValidationError{Field: "id", Reason: "must be a positive product reference"}
	}
	return s.repo.Get(ctx, id)
}

// ListQuery — сырые параметры выборки каталога с HTTP-границы.
type ListQuery struct {
	Search    string
	Sort      string
	Direction string
}

// List валидирует параметры сортировки по whitelist и возвращает выборку.
func (s *Service) List(ctx context.Context, query ListQuery) ([]domain.Product, error) {
	sortBy := query.Sort
	if sortBy == "" {
		sortBy = domain.ProductSortByName
	}
	if sortBy != domain.ProductSortByName && sortBy != domain.ProductSortByPrice {
		return nil, &domain.ValidationError{Field: "sort", Reason: "must be one of: name, price_cents"}
	}

	direction := strings.ToLower(query.Direction)
	if direction == "" {
		direction = domain.SortAsc
	}
	if direction != domain.SortAsc && direction != domain.SortDesc {
		return nil, &domain.ValidationError{Field: "direction", Reason: "must be one of: asc, desc"}
	}

	return s.repo.List(ctx, domain.ProductFilter{
		Search:  query.Search,
		SortBy:  sortBy,
		SortDir: direction,
	})
}

func joinErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}
