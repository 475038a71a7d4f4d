package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ericleon/storefront/internal/domain"
	"github.com/ericleon/storefront/internal/storage/memory"
	"github.com/ericleon/storefront/internal/storage/postgres"
)

// Dependencies содержит зависимости сервиса, собранные по конфигурации.
type Dependencies struct {
	Products   domain.ProductRepository
	Orders     domain.OrderRepository
	OrderStore domain.OrderStore
	OutboxRepo domain.OutboxRepository
	Logger     *log.Entry

	// pg не nil только для postgres-драйвера; нужен для health-чека
	// и закрытия пула.
	pg *postgres.Store
}

// NewDependencies собирает хранилище по выбранному драйверу.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory:
		store := memory.NewStore()
		logger.Info("используется in-memory хранилище")
		return &Dependencies{
			Products:   memory.NewProductRepository(store),
			Orders:     memory.NewOrderRepository(store),
			OrderStore: store,
			OutboxRepo: memory.NewOutboxRepository(store),
			Logger:     logger,
		}, nil

	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		if cfg.AutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("миграции применены")
		}
		return &Dependencies{
			Products:   postgres.NewProductRepository(store),
			Orders:     postgres.NewOrderRepository(store),
			OrderStore: postgres.NewOrderStore(store),
			OutboxRepo: postgres.NewOutboxRepository(store),
			Logger:     logger,
			pg:         store,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// PostgresStore возвращает нижележащий пул для health-чеков; nil для memory.
func (d *Dependencies) PostgresStore() *postgres.Store {
	return d.pg
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() error {
	if d == nil || d.pg == nil {
		return nil
	}
	return d.pg.Close()
}
