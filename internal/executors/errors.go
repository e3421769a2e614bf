package executors

import "errors"

// Ошибки реестра и функций карточек.
var (
	// ErrExecutorNotFound — имя функции не зарегистрировано.
	ErrExecutorNotFound = errors.New("executor not found")

	// ErrInvalidExecutor — пустое имя или nil-функция при регистрации.
	ErrInvalidExecutor = errors.New("invalid executor")

	// ErrDuplicateExecutor — функция с таким именем уже зарегистрирована.
	ErrDuplicateExecutor = errors.New("executor already registered")

	// ErrInvalidCount — отрицательное количество элементов.
	ErrInvalidCount = errors.New("invalid count")
)
