// Cardflow Worker — выполняет pipeline из очереди executions.requested.
//
// Worker:
//   - Получает запросы на выполнение из RabbitMQ
//   - Выполняет pipeline встроенным движком
//   - Сохраняет историю (DB_URL), обновляет кэш (REDIS_URL)
//     и публикует execution.completed
//
// Workers масштабируются горизонтально.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Cardflow/internal/cache"
	"github.com/shaiso/Cardflow/internal/catalog"
	"github.com/shaiso/Cardflow/internal/config"
	"github.com/shaiso/Cardflow/internal/engine"
	"github.com/shaiso/Cardflow/internal/executors"
	"github.com/shaiso/Cardflow/internal/mq"
	"github.com/shaiso/Cardflow/internal/repo"
	"github.com/shaiso/Cardflow/internal/runner"
	"github.com/shaiso/Cardflow/internal/telemetry"
	"github.com/shaiso/Cardflow/internal/worker"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting cardflow-worker")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	amqpURL := cfg.AMQPURL
	if amqpURL == "" {
		amqpURL = mq.DefaultURL()
	}

	// RabbitMQ обязателен: без очереди worker'у нечего делать
	mqConn, err := mq.NewConnection(amqpURL, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer mqConn.Close()
	logger.Info("RabbitMQ connected")

	if err := mq.SetupTopology(ctx, mqConn); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	cat := catalog.Default()
	eng := engine.New(engine.Config{
		Definitions: cat,
		Executors:   executors.Default(executors.Config{MaxItems: cfg.MaxGeneratedItems}),
		Metrics:     metrics,
		Logger:      logger,
	})

	runnerCfg := runner.Config{
		Engine:  eng,
		Events:  mq.NewPublisher(mqConn, logger),
		Metrics: metrics,
		Logger:  logger,
	}

	// DB pool
	if cfg.DBURL != "" {
		pool, err := repo.NewPool(ctx, cfg.DBURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := repo.Migrate(ctx, pool); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		logger.Info("database connected")
		runnerCfg.History = repo.NewExecutionRepo(pool)
	}

	// Redis
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis not available, latest execution cache disabled", "error", err)
		} else {
			defer client.Close()
			runnerCfg.Cache = cache.New(cache.Config{Client: client, TTL: cfg.CacheTTL})
		}
	}

	// Создаём worker
	w := worker.New(worker.Config{
		Conn:   mqConn,
		Runner: runner.New(runnerCfg),
		Logger: logger,
	})

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !mqConn.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("rabbitmq disconnected"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.WorkerAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// Останавливаем worker
	w.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)

	logger.Info("cardflow-worker stopped")
}
