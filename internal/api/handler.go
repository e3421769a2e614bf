package api

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shaiso/Cardflow/internal/catalog"
	"github.com/shaiso/Cardflow/internal/domain"
	"github.com/shaiso/Cardflow/internal/engine"
	"github.com/shaiso/Cardflow/internal/telemetry"
)

// PipelineRunner — выполнение pipeline (runner.Runner).
type PipelineRunner interface {
	Run(ctx context.Context, p *domain.Pipeline, observe engine.Observer) (*domain.PipelineExecution, error)
}

// HistoryReader — чтение истории запусков (repo.ExecutionRepo).
type HistoryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineExecution, error)
	ListByPipeline(ctx context.Context, pipelineID string, limit int) ([]domain.PipelineExecution, error)
}

// LatestReader — чтение последнего запуска из кэша (cache.LatestCache).
type LatestReader interface {
	GetLatest(ctx context.Context, pipelineID string) (*domain.PipelineExecution, error)
}

// ExecutionQueue — постановка pipeline в очередь worker'ов (mq.Publisher).
type ExecutionQueue interface {
	PublishExecutionRequested(ctx context.Context, p *domain.Pipeline) (string, error)
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	catalog  *catalog.Catalog
	runner   PipelineRunner
	history  HistoryReader
	latest   LatestReader
	queue    ExecutionQueue
	metrics  *telemetry.Metrics
	validate *validator.Validate
	logger   *slog.Logger
}

// Config — конфигурация для создания Handler.
// History, Latest, Queue и Metrics опциональны: без них соответствующие
// маршруты отвечают 503.
type Config struct {
	Catalog *catalog.Catalog
	Runner  PipelineRunner
	History HistoryReader
	Latest  LatestReader
	Queue   ExecutionQueue
	Metrics *telemetry.Metrics
	Logger  *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		catalog:  cfg.Catalog,
		runner:   cfg.Runner,
		history:  cfg.History,
		latest:   cfg.Latest,
		queue:    cfg.Queue,
		metrics:  cfg.Metrics,
		validate: validator.New(),
		logger:   logger,
	}
}
