package executors

import (
	"sort"

	"github.com/shaiso/Cardflow/internal/domain"
)

// Операции трансформации.
const (
	OpPluck   = "pluck"
	OpGroupBy = "groupBy"
	OpSort    = "sort"
)

// Transform преобразует последовательность.
//
// Вход: data. Свойства: operation, field.
//   - pluck — значения item[field]; элементы без поля или с null пропускаются
//   - groupBy — [{group, items, count}] по строковому виду item[field],
//     группы в порядке первого появления
//   - sort — стабильная сортировка объектов по строковому виду item[field]
//   - иначе — данные без изменений
//
// Outputs: {"transformed": [...]}; если вход не последовательность — пустой список.
func Transform(inputs map[string]domain.Value, props []domain.Property) (map[string]domain.Value, error) {
	items, ok := inputs["data"].AsList()
	if !ok {
		return map[string]domain.Value{"transformed": domain.List()}, nil
	}

	field := PropertyString(props, "field")

	var transformed []domain.Value
	switch PropertyString(props, "operation") {
	case OpPluck:
		transformed = pluck(items, field)
	case OpGroupBy:
		transformed = groupBy(items, field)
	case OpSort:
		transformed = sortBy(items, field)
	default:
		transformed = items
	}

	return map[string]domain.Value{"transformed": domain.List(transformed...)}, nil
}

func pluck(items []domain.Value, field string) []domain.Value {
	out := make([]domain.Value, 0, len(items))
	for _, item := range items {
		v, ok := item.Field(field)
		if !ok || v.IsNull() {
			continue
		}
		out = append(out, v)
	}
	return out
}

func groupBy(items []domain.Value, field string) []domain.Value {
	order := make([]string, 0)
	groups := make(map[string][]domain.Value)

	for _, item := range items {
		if !item.IsMap() {
			continue
		}
		key := fieldKey(item, field)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}

	out := make([]domain.Value, 0, len(order))
	for _, key := range order {
		members := groups[key]
		out = append(out, domain.Map(map[string]domain.Value{
			"group": domain.String(key),
			"items": domain.List(members...),
			"count": domain.Int(len(members)),
		}))
	}
	return out
}

func sortBy(items []domain.Value, field string) []domain.Value {
	out := make([]domain.Value, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].IsMap() || !out[j].IsMap() {
			return false
		}
		return fieldKey(out[i], field) < fieldKey(out[j], field)
	})
	return out
}

// fieldKey возвращает строковый вид item[field]; для отсутствующего поля — "undefined".
func fieldKey(item domain.Value, field string) string {
	v, ok := item.Field(field)
	if !ok {
		return "undefined"
	}
	return v.String()
}
