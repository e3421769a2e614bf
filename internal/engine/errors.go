package engine

import (
	"errors"
	"strings"

	"github.com/shaiso/Cardflow/internal/executors"
)

// Ошибки выполнения pipeline.
var (
	// ErrCircularDependency — в графе есть цикл; запуск прерывается целиком.
	ErrCircularDependency = errors.New("circular dependency detected")

	// ErrDefinitionNotFound — определение карточки не найдено.
	ErrDefinitionNotFound = errors.New("card definition not found")

	// ErrExecutorNotFound — функция карточки не зарегистрирована.
	ErrExecutorNotFound = executors.ErrExecutorNotFound

	// ErrExecutorRuntime — функция карточки вернула ошибку или упала.
	ErrExecutorRuntime = errors.New("executor failed")
)

// CycleError — цикл, обнаруженный планировщиком.
type CycleError struct {
	// Path — карточки цикла; первая и последняя совпадают.
	Path []string
}

// Error реализует интерфейс error.
func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrCircularDependency.Error()
	}
	return ErrCircularDependency.Error() + ": " + strings.Join(e.Path, " -> ")
}

// Unwrap возвращает ErrCircularDependency.
func (e *CycleError) Unwrap() error {
	return ErrCircularDependency
}

// ExecutorError — ошибка функции карточки.
//
// Текст ошибки функции сохраняется без изменений.
type ExecutorError struct {
	Executor string // имя функции
	Err      error  // ошибка функции
}

// Error реализует интерфейс error.
func (e *ExecutorError) Error() string {
	return e.Err.Error()
}

// Unwrap возвращает ErrExecutorRuntime и исходную ошибку.
func (e *ExecutorError) Unwrap() []error {
	return []error{ErrExecutorRuntime, e.Err}
}
