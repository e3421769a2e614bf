package executors

import (
	"fmt"
	"sort"
	"sync"
)

// Имена встроенных функций (поле executor в определениях карточек).
const (
	PersonGenerator    = "personGenerator"
	CompanyGenerator   = "companyGenerator"
	NumberGenerator    = "numberGenerator"
	PhoneGenerator     = "phoneGenerator"
	InternetGenerator  = "internetGenerator"
	LocationGenerator  = "locationGenerator"
	FilterGenerator    = "filterGenerator"
	TransformGenerator = "transformGenerator"
	PrintArray         = "printArrayExecutor"
	JSONPreview        = "jsonPreviewExecutor"
)

// Registry — реестр функций карточек.
//
// Позволяет регистрировать и получать Func по имени.
// Потокобезопасен.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]Func),
	}
}

// Default создаёт реестр со всеми встроенными функциями.
func Default(cfg Config) *Registry {
	g := newGenerators(cfg)
	r := NewRegistry()

	builtin := map[string]Func{
		PersonGenerator:    g.person,
		CompanyGenerator:   g.company,
		NumberGenerator:    g.number,
		PhoneGenerator:     g.phone,
		InternetGenerator:  g.internet,
		LocationGenerator:  g.location,
		FilterGenerator:    Filter,
		TransformGenerator: Transform,
		PrintArray:         PrintArrayFunc,
		JSONPreview:        JSONPreviewFunc,
	}
	for name, fn := range builtin {
		// Встроенный набор фиксирован, ошибка здесь невозможна
		_ = r.Register(name, fn)
	}

	return r
}

// Register регистрирует функцию под именем.
//
// Возвращает ErrInvalidExecutor для пустого имени или nil-функции
// и ErrDuplicateExecutor, если имя уже занято.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidExecutor)
	}
	if fn == nil {
		return fmt.Errorf("%w: nil function for %s", ErrInvalidExecutor, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateExecutor, name)
	}
	r.funcs[name] = fn
	return nil
}

// Get возвращает функцию по имени.
// Возвращает ErrExecutorNotFound, если функция не найдена.
func (r *Registry) Get(name string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.funcs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrExecutorNotFound, name)
	}
	return fn, nil
}

// Has проверяет, зарегистрирована ли функция.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.funcs[name]
	return exists
}

// Names возвращает отсортированный список имён.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count возвращает количество зарегистрированных функций.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.funcs)
}
