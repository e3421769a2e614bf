package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionResult — результат выполнения одной карточки.
type ExecutionResult struct {
	// CardID — карточка, к которой относится результат.
	CardID string `json:"cardId" yaml:"cardId"`

	// Outputs — имя выходного порта → последовательность значений.
	// Любой результат executor'а нормализуется в последовательность.
	// При ошибке — пустая map.
	Outputs map[string][]Value `json:"outputs" yaml:"outputs"`

	// Error — текст ошибки, если карточка не выполнилась.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// ExecutionTime — время выполнения в миллисекундах.
	ExecutionTime int64 `json:"executionTime" yaml:"executionTime"`
}

// Failed возвращает true, если карточка завершилась ошибкой.
func (r ExecutionResult) Failed() bool {
	return r.Error != ""
}

// ExecutionStatus — статус запуска pipeline.
//
// Жизненный цикл:
//
//	running → completed
//	        ↘ error (цикл в графе)
type ExecutionStatus string

const (
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionError     ExecutionStatus = "error"
)

// IsTerminal возвращает true, если статус финальный.
func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecutionCompleted || s == ExecutionError
}

// PipelineExecution — один запуск pipeline.
//
// Ошибки отдельных карточек не меняют статус: completed означает,
// что все карточки были выполнены (возможно, с ошибками).
type PipelineExecution struct {
	ID         uuid.UUID         `json:"id" yaml:"id"`
	PipelineID string            `json:"pipelineId" yaml:"pipelineId"`
	Results    []ExecutionResult `json:"results" yaml:"results"`
	Status     ExecutionStatus   `json:"status" yaml:"status"`
	StartTime  time.Time         `json:"startTime" yaml:"startTime"`
	EndTime    *time.Time        `json:"endTime,omitempty" yaml:"endTime,omitempty"`

	// Error — ошибка уровня запуска (например, цикл в графе).
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewPipelineExecution создаёт запуск в статусе running.
func NewPipelineExecution(pipelineID string) *PipelineExecution {
	return &PipelineExecution{
		ID:         uuid.New(),
		PipelineID: pipelineID,
		Results:    make([]ExecutionResult, 0),
		Status:     ExecutionRunning,
		StartTime:  time.Now().UTC(),
	}
}

// MarkCompleted завершает запуск с результатами.
func (e *PipelineExecution) MarkCompleted(results []ExecutionResult) {
	now := time.Now().UTC()
	e.Results = results
	e.Status = ExecutionCompleted
	e.EndTime = &now
}

// MarkFailed завершает запуск с ошибкой уровня запуска.
func (e *PipelineExecution) MarkFailed(err string) {
	now := time.Now().UTC()
	e.Results = make([]ExecutionResult, 0)
	e.Status = ExecutionError
	e.Error = err
	e.EndTime = &now
}

// Duration возвращает продолжительность запуска.
// Возвращает 0, если запуск ещё не завершён.
func (e *PipelineExecution) Duration() time.Duration {
	if e.EndTime == nil {
		return 0
	}
	return e.EndTime.Sub(e.StartTime)
}

// FailedCards возвращает количество карточек с ошибкой.
func (e *PipelineExecution) FailedCards() int {
	n := 0
	for _, r := range e.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}
