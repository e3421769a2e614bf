// Cardflow API — HTTP сервер каталога карточек и выполнения pipeline.
//
// Зависимости подключаются по конфигурации:
//   - DB_URL    — история запусков в PostgreSQL
//   - REDIS_URL — кэш последнего запуска
//   - AMQP_URL  — события execution.completed и очередь для worker'ов
//
// Без них сервер выполняет pipeline синхронно и ничего не сохраняет.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Cardflow/internal/api"
	"github.com/shaiso/Cardflow/internal/cache"
	"github.com/shaiso/Cardflow/internal/catalog"
	"github.com/shaiso/Cardflow/internal/config"
	"github.com/shaiso/Cardflow/internal/engine"
	"github.com/shaiso/Cardflow/internal/executors"
	"github.com/shaiso/Cardflow/internal/mq"
	"github.com/shaiso/Cardflow/internal/repo"
	"github.com/shaiso/Cardflow/internal/runner"
	"github.com/shaiso/Cardflow/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting cardflow-api")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	// Каталог и движок
	cat := catalog.Default()
	registry := executors.Default(executors.Config{MaxItems: cfg.MaxGeneratedItems})
	if err := cat.Validate(registry); err != nil {
		logger.Error("card catalog references unknown executors", "error", err)
		os.Exit(1)
	}
	eng := engine.New(engine.Config{Definitions: cat, Executors: registry, Metrics: metrics, Logger: logger})

	runnerCfg := runner.Config{Engine: eng, Metrics: metrics, Logger: logger}
	apiCfg := api.Config{Catalog: cat, Metrics: metrics, Logger: logger}

	// PostgreSQL: история запусков
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
		logger.Info("connected to database")

		history := repo.NewExecutionRepo(pool)
		runnerCfg.History = history
		apiCfg.History = history
	} else {
		logger.Warn("DB_URL is not set, execution history disabled")
	}

	// Redis: кэш последнего запуска
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis not available, latest execution cache disabled", "error", err)
		} else {
			defer client.Close()
			logger.Info("connected to redis")

			latest := cache.New(cache.Config{Client: client, TTL: cfg.CacheTTL})
			runnerCfg.Cache = latest
			apiCfg.Latest = latest
		}
	}

	// RabbitMQ: события и очередь
	if cfg.AMQPURL != "" {
		mqConn, err := mq.NewConnection(cfg.AMQPURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ not available, execution events disabled", "error", err)
		} else {
			defer mqConn.Close()
			logger.Info("RabbitMQ connected")

			if err := mq.SetupTopology(ctx, mqConn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}

			publisher := mq.NewPublisher(mqConn, logger)
			runnerCfg.Events = publisher
			apiCfg.Queue = publisher
		}
	}

	apiCfg.Runner = runner.New(runnerCfg)
	handler := api.NewHandler(apiCfg)

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
