package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ericleon/storefront/internal/domain"
)

const opTimeout = 5 * time.Second

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, sku, price_cents, stock_qty)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at
	`,
		product.Name, product.SKU, product.PriceCents, product.StockQty,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Product{}, &domain.AlreadyExistsError{SKU: product.SKU}
		}
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return product, nil
}

func (r *productRepository) Get(ctx context.Context, id int64) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, sku, price_cents, stock_qty, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&product.ID, &product.Name, &product.SKU,
		&product.PriceCents, &product.StockQty, &product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, &domain.NotFoundError{Kind: "product", ID: id}
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}

	return product, nil
}

func (r *productRepository) Update(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET price_cents = COALESCE($1, price_cents),
		    stock_qty   = COALESCE($2, stock_qty)
		WHERE id = $3
		RETURNING id, name, sku, price_cents, stock_qty, created_at
	`,
		patch.PriceCents, patch.StockQty, id,
	).Scan(
		&product.ID, &product.Name, &product.SKU,
		&product.PriceCents, &product.StockQty, &product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, &domain.NotFoundError{Kind: "product", ID: id}
		}
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

// Поля сортировки попадают в SQL напрямую, поэтому маппинг фиксирован:
// произвольные значения сюда не доходят.
var productSortColumns = map[string]string{
	domain.ProductSortByName:  "name",
	domain.ProductSortByPrice: "price_cents",
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	column, ok := productSortColumns[filter.SortBy]
	if !ok {
		column = "name"
	}
	direction := "ASC"
	if filter.SortDir == domain.SortDesc {
		direction = "DESC"
	}

	query := `
		SELECT id, name, sku, price_cents, stock_qty, created_at
		FROM products
	`
	args := make([]any, 0, 1)
	if filter.Search != "" {
		query += " WHERE LOWER(name) LIKE $1"
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.SKU,
			&product.PriceCents, &product.StockQty, &product.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.ProductRepository = (*productRepository)(nil)
