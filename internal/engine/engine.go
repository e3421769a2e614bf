package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Cardflow/internal/domain"
	"github.com/shaiso/Cardflow/internal/executors"
	"github.com/shaiso/Cardflow/internal/telemetry"
)

// DefinitionLookup — поиск определения карточки по ID.
type DefinitionLookup interface {
	Definition(id string) (*domain.CardDefinition, bool)
}

// ExecutorSource — поиск функции карточки по имени.
type ExecutorSource interface {
	Get(name string) (executors.Func, error)
}

// unknownExecutor — метка метрик для карточек без определения в каталоге.
const unknownExecutor = "unknown"

// Observer получает результат каждой карточки сразу после её выполнения.
type Observer func(card *domain.Card, result domain.ExecutionResult)

// Engine выполняет pipeline.
type Engine struct {
	definitions DefinitionLookup
	executors   ExecutorSource
	metrics     *telemetry.Metrics
	logger      *slog.Logger
}

// Config — конфигурация Engine.
type Config struct {
	// Definitions — определения карточек.
	Definitions DefinitionLookup

	// Executors — реестр функций карточек.
	Executors ExecutorSource

	// Metrics — метрики карточек (опционально).
	Metrics *telemetry.Metrics

	// Logger — логгер по умолчанию (если в context нет своего).
	Logger *slog.Logger
}

// New создаёт новый Engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		definitions: cfg.Definitions,
		executors:   cfg.Executors,
		metrics:     cfg.Metrics,
		logger:      logger,
	}
}

// Execute выполняет pipeline и возвращает результаты в порядке выполнения.
//
// Единственная ошибка уровня запуска — цикл (*CycleError): в этом
// случае ни одна карточка не выполняется. Остальные ошибки
// записываются в результат соответствующей карточки.
func (e *Engine) Execute(ctx context.Context, p *domain.Pipeline) ([]domain.ExecutionResult, error) {
	return e.ExecuteStream(ctx, p, nil)
}

// ExecuteStream выполняет pipeline, вызывая observe после каждой карточки.
// Возвращаемый список тот же, что у Execute.
func (e *Engine) ExecuteStream(ctx context.Context, p *domain.Pipeline, observe Observer) ([]domain.ExecutionResult, error) {
	logger := telemetry.WithPipelineID(telemetry.FromContextOr(ctx, e.logger), p.ID)
	start := time.Now()

	g := NewGraph(p.Cards, p.Connections)
	order, err := Order(g)
	if err != nil {
		return nil, err
	}

	outputs := make(Outputs, len(order))
	results := make([]domain.ExecutionResult, 0, len(order))
	failed := 0

	for _, card := range order {
		res := e.executeCard(g, card, outputs)

		cardLogger := telemetry.WithCardID(logger, card.ID)
		if res.Failed() {
			failed++
			cardLogger.Warn("card failed",
				"definition", card.DefinitionID,
				"error", res.Error,
				"duration_ms", res.ExecutionTime,
			)
		} else {
			cardLogger.Debug("card executed",
				"definition", card.DefinitionID,
				"duration_ms", res.ExecutionTime,
			)
		}

		results = append(results, res)
		if observe != nil {
			observe(card, res)
		}
	}

	logger.Info("pipeline executed",
		"cards", len(results),
		"failed", failed,
		"duration", time.Since(start),
	)

	return results, nil
}

// executeCard выполняет одну карточку и записывает её выходы в outputs.
// Карточка с ошибкой получает пустые выходы и в outputs не попадает.
func (e *Engine) executeCard(g *Graph, card *domain.Card, outputs Outputs) domain.ExecutionResult {
	start := time.Now()

	executor, raw, err := e.invoke(g, card, outputs)
	d := time.Since(start)
	elapsed := d.Milliseconds()

	e.metrics.ObserveCard(executor, d, err != nil)

	if err != nil {
		return domain.ExecutionResult{
			CardID:        card.ID,
			Outputs:       make(map[string][]domain.Value),
			Error:         err.Error(),
			ExecutionTime: elapsed,
		}
	}

	normalized := Normalize(raw)
	outputs[card.ID] = normalized

	return domain.ExecutionResult{
		CardID:        card.ID,
		Outputs:       normalized,
		ExecutionTime: elapsed,
	}
}

// invoke находит определение и функцию карточки и вызывает её.
// Возвращает имя функции из каталога или unknownExecutor,
// если определение не найдено.
func (e *Engine) invoke(g *Graph, card *domain.Card, outputs Outputs) (string, map[string]domain.Value, error) {
	def, ok := e.definitions.Definition(card.DefinitionID)
	if !ok {
		return unknownExecutor, nil, fmt.Errorf("%w: %s", ErrDefinitionNotFound, card.DefinitionID)
	}

	fn, err := e.executors.Get(def.Executor)
	if err != nil {
		return def.Executor, nil, err
	}

	inputs := ResolveInputs(g, card, outputs)
	out, err := call(def.Executor, fn, inputs, domain.CloneProperties(card.Properties))
	return def.Executor, out, err
}

// call вызывает функцию карточки, превращая panic в ошибку.
func call(name string, fn executors.Func, inputs map[string]domain.Value, props []domain.Property) (out map[string]domain.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &ExecutorError{Executor: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	out, err = fn(inputs, props)
	if err != nil {
		return nil, &ExecutorError{Executor: name, Err: err}
	}
	return out, nil
}

// Normalize приводит каждый выход к последовательности.
//
// Список передаётся как есть, любое другое значение
// (скаляр, объект, null) оборачивается в список из одного элемента.
func Normalize(raw map[string]domain.Value) map[string][]domain.Value {
	out := make(map[string][]domain.Value, len(raw))
	for name, v := range raw {
		if items, ok := v.AsList(); ok {
			out[name] = items
			continue
		}
		out[name] = []domain.Value{v}
	}
	return out
}
