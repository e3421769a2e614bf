package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/shaiso/Cardflow/internal/domain"
	"github.com/shaiso/Cardflow/internal/engine"
	"github.com/shaiso/Cardflow/internal/telemetry"
)

const defaultSinkTimeout = 10 * time.Second

// History — хранилище истории запусков.
type History interface {
	Save(ctx context.Context, exec *domain.PipelineExecution) error
}

// LatestCache — кэш последнего запуска pipeline.
type LatestCache interface {
	SetLatest(ctx context.Context, exec *domain.PipelineExecution) error
}

// Events — публикация событий о запусках.
type Events interface {
	PublishExecutionCompleted(ctx context.Context, exec *domain.PipelineExecution) error
}

// Runner выполняет pipeline и фиксирует итог запуска.
type Runner struct {
	engine  *engine.Engine
	history History
	cache   LatestCache
	events  Events
	metrics *telemetry.Metrics
	logger  *slog.Logger

	sinkTimeout time.Duration
}

// Config — конфигурация Runner.
// Все поля, кроме Engine, опциональны.
type Config struct {
	Engine *engine.Engine

	History History
	Cache   LatestCache
	Events  Events
	Metrics *telemetry.Metrics

	// SinkTimeout — таймаут на сохранение/кэш/публикацию (default: 10s).
	SinkTimeout time.Duration

	Logger *slog.Logger
}

// New создаёт новый Runner.
func New(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sinkTimeout := cfg.SinkTimeout
	if sinkTimeout <= 0 {
		sinkTimeout = defaultSinkTimeout
	}

	return &Runner{
		engine:      cfg.Engine,
		history:     cfg.History,
		cache:       cfg.Cache,
		events:      cfg.Events,
		metrics:     cfg.Metrics,
		logger:      logger,
		sinkTimeout: sinkTimeout,
	}
}

// Run выполняет pipeline. observe (может быть nil) получает результат
// каждой карточки сразу после её выполнения.
//
// Запуск возвращается всегда, кроме ErrNilPipeline. При цикле в графе
// запуск имеет статус error, пустые результаты, а ошибка
// (*engine.CycleError) возвращается вторым значением.
func (r *Runner) Run(ctx context.Context, p *domain.Pipeline, observe engine.Observer) (*domain.PipelineExecution, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}

	exec := domain.NewPipelineExecution(p.ID)

	logger := telemetry.FromContextOr(ctx, r.logger)
	logger = telemetry.WithExecutionID(telemetry.WithPipelineID(logger, p.ID), exec.ID.String())
	ctx = telemetry.WithLogger(ctx, logger)

	results, err := r.engine.ExecuteStream(ctx, p, observe)
	if err != nil {
		exec.MarkFailed(err.Error())
		logger.Error("pipeline execution aborted", "error", err)
	} else {
		exec.MarkCompleted(results)
	}

	r.metrics.ObserveExecution(string(exec.Status), exec.Duration())
	r.publish(ctx, exec)

	return exec, err
}

// publish сохраняет историю, обновляет кэш и публикует событие.
// Выполняется и после отмены ctx, чтобы итог запуска не потерялся.
func (r *Runner) publish(ctx context.Context, exec *domain.PipelineExecution) {
	logger := telemetry.FromContextOr(ctx, r.logger)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.sinkTimeout)
	defer cancel()

	if r.history != nil {
		if err := r.history.Save(ctx, exec); err != nil {
			logger.Warn("failed to save execution", "error", err)
		}
	}
	if r.cache != nil {
		if err := r.cache.SetLatest(ctx, exec); err != nil {
			logger.Warn("failed to cache execution", "error", err)
		}
	}
	if r.events != nil {
		if err := r.events.PublishExecutionCompleted(ctx, exec); err != nil {
			logger.Warn("failed to publish execution.completed", "error", err)
		}
	}
}
