package executors

import (
	"fmt"
	"math"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/shaiso/Cardflow/internal/domain"
)

const (
	// DefaultCount — количество элементов, если count не задан.
	DefaultCount = 10

	// DefaultMaxItems — верхняя граница количества элементов генератора.
	DefaultMaxItems = 10000
)

// Config — конфигурация встроенных генераторов.
type Config struct {
	// MaxItems — максимальное количество элементов за один вызов.
	// По умолчанию DefaultMaxItems.
	MaxItems int

	// Faker — источник фейковых данных.
	// По умолчанию gofakeit.New(0) (случайный seed).
	Faker *gofakeit.Faker
}

// generators — генераторы с общим источником данных.
type generators struct {
	faker    *gofakeit.Faker
	maxItems int
}

// newFaker создаёт источник данных по умолчанию. Тесты подменяют его для воспроизводимости.
var newFaker = func() *gofakeit.Faker {
	return gofakeit.New(0)
}

func newGenerators(cfg Config) *generators {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = DefaultMaxItems
	}
	if cfg.Faker == nil {
		cfg.Faker = newFaker()
	}
	return &generators{
		faker:    cfg.Faker,
		maxItems: cfg.MaxItems,
	}
}

// count определяет количество элементов.
//
// Порядок: вход count (число или последовательность из одного элемента),
// затем свойство count, затем DefaultCount. Ноль и нечисловые значения
// пропускаются. Дробная часть отбрасывается, результат ограничен maxItems.
func (g *generators) count(inputs map[string]domain.Value, props []domain.Property) (int, error) {
	n := 0.0
	if v, ok := inputs["count"]; ok {
		if f, ok := v.ToNumber(); ok && !math.IsNaN(f) {
			n = math.Trunc(f)
		}
	}
	if n == 0 {
		if f, ok := PropertyNumber(props, "count"); ok && !math.IsNaN(f) {
			n = math.Trunc(f)
		}
	}
	if n == 0 {
		n = DefaultCount
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCount, n)
	}
	// Ограничение до преобразования в int: 1e20 и +Inf не помещаются в int
	if n > float64(g.maxItems) {
		return g.maxItems, nil
	}
	return int(n), nil
}

// generate вызывает item n раз и собирает список.
func (g *generators) generate(inputs map[string]domain.Value, props []domain.Property, item func() domain.Value) (domain.Value, error) {
	n, err := g.count(inputs, props)
	if err != nil {
		return domain.Null(), err
	}

	items := make([]domain.Value, n)
	for i := range items {
		items[i] = item()
	}
	return domain.List(items...), nil
}

// address генерирует почтовый адрес.
func (g *generators) address() domain.Value {
	return domain.Map(map[string]domain.Value{
		"street":  domain.String(g.faker.Street()),
		"city":    domain.String(g.faker.City()),
		"state":   domain.String(g.faker.State()),
		"zipCode": domain.String(g.faker.Zip()),
		"country": domain.String(g.faker.Country()),
	})
}

// emailFor строит адрес из имени и фамилии.
func (g *generators) emailFor(first, last string) string {
	return mailbox(first, last) + "@" + g.faker.DomainName()
}

// mailbox строит локальную часть адреса: first.last в нижнем регистре.
func mailbox(first, last string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			return r
		default:
			return -1
		}
	}, strings.ToLower(first+"."+last))
}
