package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/ericleon/storefront/internal/health"
	"github.com/ericleon/storefront/internal/messaging/kafka"
	"github.com/ericleon/storefront/internal/service/catalog"
	"github.com/ericleon/storefront/internal/service/orders"
	"github.com/ericleon/storefront/internal/service/outbox"
	"github.com/ericleon/storefront/internal/transport/httpapi"
	"github.com/ericleon/storefront/internal/version"
)

// Run собирает сервис по конфигурации и блокируется до отмены ctx
// или фатальной ошибки HTTP-сервера.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	catalogSvc := catalog.NewService(deps.Products, log.WithField("component", "catalog"))
	engine := orders.NewEngine(deps.OrderStore, log.WithField("component", "order-engine"))
	router := httpapi.NewRouter(catalogSvc, engine, deps.Orders, log.WithField("component", "httpapi"))

	healthHandler := healthcheck.NewHandler(version.String())
	if pg := deps.PostgresStore(); pg != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewPingChecker("postgres", 2*time.Second, pg.Ping))
	}
	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	// Kafka опциональна: без брокеров заказы создаются, события копятся
	// в outbox и будут опубликованы после включения воркера.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	var workerDone chan struct{}
	if kafkaProducer != nil {
		publisher := kafka.NewOutboxPublisher(kafkaProducer, cfg.OutboxTopic)
		dlqTopic := cfg.DLQTopic
		if dlqTopic == "" {
			dlqTopic = kafka.TopicDeadLetterQueue
		}
		worker := outbox.NewWorker(
			deps.OutboxRepo,
			publisher,
			outbox.WithLogger(log.WithField("component", "outbox-worker")),
			outbox.WithDLQPublisher(kafka.NewOutboxPublisher(kafkaProducer, dlqTopic)),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
			outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
		)

		workerDone = make(chan struct{})
		go func() {
			defer close(workerDone)
			worker.Run(workerCtx)
		}()
	}

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	shutdown := func() {
		stopWorker()
		if workerDone != nil {
			<-workerDone
		}
		shutdownHTTP(metricsSrv, logger)
		closeKafka(kafkaProducer, logger)
	}

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP-сервер")
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(stopCtx); err != nil {
			logger.WithError(err).Warn("graceful stop превысил таймаут, принудительно останавливаем")
			_ = httpSrv.Close()
		}
		shutdown()
		return ctx.Err()

	case err := <-errCh:
		shutdown()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus
// и health-пробы на отдельном listener'е.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
