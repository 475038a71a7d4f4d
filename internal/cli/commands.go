// Package cli реализует команды администратора storefrontctl.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ericleon/storefront/internal/domain"
	"github.com/ericleon/storefront/internal/storage/postgres"
	"github.com/ericleon/storefront/internal/version"
)

const defaultTimeout = 30 * time.Second

// openStoreFn и outboxRepoFn позволяют тестам подменить подключение к базе.
var (
	openStoreFn = func(ctx context.Context, dsn string) (adminStore, error) {
		return postgres.Open(ctx, dsn)
	}
	outboxRepoFn = func(store adminStore) (domain.OutboxRepository, error) {
		pg, ok := store.(*postgres.Store)
		if !ok {
			return nil, errors.New("outbox-команды доступны только для postgres")
		}
		return postgres.NewOutboxRepository(pg), nil
	}
)

// adminStore — операции, нужные административным командам.
type adminStore interface {
	MigrateUp(ctx context.Context, steps int) error
	MigrateDown(ctx context.Context, steps int) error
	MigrationStatus(ctx context.Context) (int64, int, error)
	Seed(ctx context.Context) (int, error)
	Close() error
}

var rootCmd = &cobra.Command{
	Use:           "storefrontctl",
	Short:         "Административные команды storefront: миграции, seed, outbox",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("postgres-dsn", "", "PostgreSQL DSN (env: STOREFRONT_POSTGRES_DSN)")
	rootCmd.PersistentFlags().Duration("timeout", defaultTimeout, "per-command timeout")

	_ = viper.BindPFlag("postgres-dsn", rootCmd.PersistentFlags().Lookup("postgres-dsn"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.SetEnvPrefix("STOREFRONT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newOutboxCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// withStore открывает соединение, выполняет fn и закрывает соединение.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store adminStore) error) error {
	dsn := strings.TrimSpace(viper.GetString("postgres-dsn"))
	if dsn == "" {
		return errors.New("PostgreSQL DSN не задан: используйте --postgres-dsn или STOREFRONT_POSTGRES_DSN")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
	defer cancel()

	store, err := openStoreFn(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open postgres store: %w", err)
	}
	defer store.Close()

	return fn(ctx, store)
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Управление схемой базы данных",
	}

	var steps int

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Применить миграции (0 = все)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store adminStore) error {
				if err := store.MigrateUp(ctx, steps); err != nil {
					return fmt.Errorf("migrate up: %w", err)
				}
				return printStatus(ctx, cmd, store, "migrate up ok")
			})
		},
	}
	upCmd.Flags().IntVar(&steps, "steps", 0, "количество миграций (0 = все)")

	var downSteps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Откатить миграции",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store adminStore) error {
				if downSteps <= 0 {
					downSteps = 1
				}
				if err := store.MigrateDown(ctx, downSteps); err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				return printStatus(ctx, cmd, store, "migrate down ok")
			})
		},
	}
	downCmd.Flags().IntVar(&downSteps, "steps", 1, "количество откатываемых миграций")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Текущая версия схемы",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store adminStore) error {
				return printStatus(ctx, cmd, store, "migration status")
			})
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, statusCmd)
	return migrateCmd
}

func printStatus(ctx context.Context, cmd *cobra.Command, store adminStore, prefix string) error {
	ver, count, err := store.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	cmd.Printf("%s: version=%d applied=%d\n", prefix, ver, count)
	return nil
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Загрузить демонстрационный каталог (идемпотентно)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store adminStore) error {
				inserted, err := store.Seed(ctx)
				if err != nil {
					return fmt.Errorf("seed catalogue: %w", err)
				}
				cmd.Printf("seed ok: inserted=%d\n", inserted)
				return nil
			})
		},
	}
}

func newOutboxCmd() *cobra.Command {
	outboxCmd := &cobra.Command{
		Use:   "outbox",
		Short: "Операции над transactional outbox",
	}

	var limit int
	requeueCmd := &cobra.Command{
		Use:   "requeue",
		Short: "Вернуть failed-события в pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store adminStore) error {
				repo, err := outboxRepoFn(store)
				if err != nil {
					return err
				}
				requeued, err := repo.RequeueFailed(ctx, limit)
				if err != nil {
					return fmt.Errorf("requeue failed events: %w", err)
				}
				cmd.Printf("outbox requeue ok: requeued=%d\n", requeued)
				return nil
			})
		},
	}
	requeueCmd.Flags().IntVar(&limit, "limit", 100, "максимум событий за запуск")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Показать backlog outbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store adminStore) error {
				repo, err := outboxRepoFn(store)
				if err != nil {
					return err
				}
				stats, err := repo.Stats(ctx)
				if err != nil {
					return fmt.Errorf("outbox stats: %w", err)
				}
				cmd.Printf("outbox: pending=%d", stats.PendingCount)
				if !stats.OldestPendingAt.IsZero() {
					cmd.Printf(" oldest_pending=%s", stats.OldestPendingAt.Format(time.RFC3339))
				}
				cmd.Println()
				return nil
			})
		},
	}

	outboxCmd.AddCommand(requeueCmd, statsCmd)
	return outboxCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Версия сборки",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(version.String())
			return nil
		},
	}
}

// Execute запускает корневую команду storefrontctl.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
