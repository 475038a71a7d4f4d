package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ericleon/storefront/internal/domain"
)

// orderTxStore открывает транзакцию создания заказа. Соединение из пула
// принадлежит транзакции эксклюзивно и возвращается на любом пути выхода.
type orderTxStore struct {
	db *sql.DB
}

// NewOrderStore создаёт PostgreSQL-реализацию OrderStore.
func NewOrderStore(store *Store) domain.OrderStore {
	return &orderTxStore{db: store.DB()}
}

// WithinTx выполняет fn в одной транзакции READ COMMITTED. Этого уровня
// достаточно, потому что проверка остатков идёт по строкам, заблокированным
// SELECT ... FOR UPDATE до самого коммита. Ошибки сериализации и дедлоки
// транслируются в domain.ErrConflict — их безопасно повторять.
func (s *orderTxStore) WithinTx(ctx context.Context, fn func(tx domain.OrderTx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}

	if err := fn(&orderTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return translateTxError(err)
	}

	if err := tx.Commit(); err != nil {
		return translateTxError(fmt.Errorf("commit order tx: %w", err))
	}
	return nil
}

// translateTxError распознаёт конфликт конкурентных транзакций
// (serialization_failure, deadlock_detected) по кодам PostgreSQL.
func translateTxError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
		}
	}
	return err
}

type orderTx struct {
	tx *sql.Tx
}

// GetProductForUpdate читает товар и удерживает блокировку его строки до
// конца транзакции. Конкурентный CreateOrder на тот же товар будет ждать
// здесь, поэтому совокупное списание никогда не превышает остаток.
func (t *orderTx) GetProductForUpdate(ctx context.Context, id int64) (domain.Product, error) {
	var product domain.Product
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, name, sku, price_cents, stock_qty, created_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(
		&product.ID, &product.Name, &product.SKU,
		&product.PriceCents, &product.StockQty, &product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, &domain.NotFoundError{Kind: "product", ID: id}
		}
		return domain.Product{}, fmt.Errorf("select product for update: %w", err)
	}

	return product, nil
}

func (t *orderTx) DecrementStock(ctx context.Context, id int64, qty int32) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE products
		SET stock_qty = stock_qty - $2
		WHERE id = $1
		  AND stock_qty >= $2
	`, id, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock rows affected: %w", err)
	}
	if affected == 0 {
		// Строка заблокирована и проверена этой же транзакцией;
		// нулевое обновление означает дефект вызывающего кода.
		return fmt.Errorf("stock underflow prevented for product %d", id)
	}

	return nil
}

func (t *orderTx) CreateOrderHeader(ctx context.Context) (int64, time.Time, error) {
	var (
		orderID   int64
		createdAt time.Time
	)
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO orders DEFAULT VALUES
		RETURNING id, created_at
	`).Scan(&orderID, &createdAt)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("insert order header: %w", err)
	}

	return orderID, createdAt, nil
}

func (t *orderTx) AddOrderItem(ctx context.Context, orderID, productID int64, qty int32, priceAtPurchase int64) (int64, error) {
	var itemID int64
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO order_items (order_id, product_id, qty, price_at_purchase)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, orderID, productID, qty, priceAtPurchase).Scan(&itemID)
	if err != nil {
		return 0, fmt.Errorf("insert order item: %w", err)
	}

	return itemID, nil
}

func (t *orderTx) EnqueueOutbox(ctx context.Context, msg domain.OutboxMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO outbox_messages (
			id, aggregate_type, aggregate_id, event_type, payload,
			status, attempt_count, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,'pending',0,$6,$7)
	`,
		msg.ID, msg.AggregateType, msg.AggregateID, msg.EventType, msg.Payload, now, now,
	)
	if err != nil {
		return fmt.Errorf("enqueue outbox message: %w", err)
	}

	return nil
}

var (
	_ domain.OrderStore = (*orderTxStore)(nil)
	_ domain.OrderTx    = (*orderTx)(nil)
)
