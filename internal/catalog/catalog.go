// Package catalog загружает определения карточек.
//
// Встроенный каталог (cards.json) содержит десять определений:
// генераторы данных, фильтр, трансформацию и карточки просмотра.
// Формат файла — объект, где ключ — ID определения, как в web UI.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/shaiso/Cardflow/internal/domain"
)

//go:embed cards.json
var builtin []byte

// Ошибки каталога.
var (
	// ErrInvalidCatalog — файл определений не разбирается или не проходит проверку.
	ErrInvalidCatalog = errors.New("invalid card catalog")

	// ErrUnknownExecutor — определение ссылается на незарегистрированную функцию.
	ErrUnknownExecutor = errors.New("definition references unknown executor")
)

// ExecutorSet — набор зарегистрированных функций.
type ExecutorSet interface {
	Has(name string) bool
}

// Catalog — неизменяемый набор определений карточек.
type Catalog struct {
	defs   domain.DefinitionSet
	sorted []*domain.CardDefinition
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default возвращает встроенный каталог.
// Встроенный файл проверяется тестами, поэтому ошибка разбора — panic.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(bytes.NewReader(builtin))
		if err != nil {
			panic(fmt.Sprintf("catalog: builtin cards.json: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse читает каталог из JSON.
//
// Если у определения пустой id, используется ключ. Ключ и id должны совпадать.
func Parse(r io.Reader) (*Catalog, error) {
	var raw map[string]*domain.CardDefinition
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	validate := validator.New()
	defs := make(domain.DefinitionSet, len(raw))

	for key, def := range raw {
		if def == nil {
			return nil, fmt.Errorf("%w: definition %q is null", ErrInvalidCatalog, key)
		}
		if def.ID == "" {
			def.ID = key
		}
		if def.ID != key {
			return nil, fmt.Errorf("%w: key %q does not match id %q", ErrInvalidCatalog, key, def.ID)
		}
		if err := validate.Struct(def); err != nil {
			return nil, fmt.Errorf("%w: definition %q: %v", ErrInvalidCatalog, key, err)
		}
		defs[key] = def
	}

	return New(defs), nil
}

// New создаёт каталог из набора определений.
func New(defs domain.DefinitionSet) *Catalog {
	sorted := make([]*domain.CardDefinition, 0, len(defs))
	for _, def := range defs {
		sorted = append(sorted, def)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Category != sorted[j].Category {
			return sorted[i].Category < sorted[j].Category
		}
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	return &Catalog{defs: defs, sorted: sorted}
}

// Definition возвращает определение по ID.
func (c *Catalog) Definition(id string) (*domain.CardDefinition, bool) {
	return c.defs.Definition(id)
}

// List возвращает определения, отсортированные по категории и имени.
func (c *Catalog) List() []*domain.CardDefinition {
	out := make([]*domain.CardDefinition, len(c.sorted))
	copy(out, c.sorted)
	return out
}

// Len возвращает количество определений.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// Validate проверяет, что функция каждого определения зарегистрирована.
func (c *Catalog) Validate(executors ExecutorSet) error {
	var errs []error
	for _, def := range c.sorted {
		if !executors.Has(def.Executor) {
			errs = append(errs, fmt.Errorf("%w: %s uses %s", ErrUnknownExecutor, def.ID, def.Executor))
		}
	}
	return errors.Join(errs...)
}
