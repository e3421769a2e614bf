package executors

import (
	"strings"

	"github.com/shaiso/Cardflow/internal/domain"
)

// Операторы фильтра.
const (
	OpEquals   = "equals"
	OpContains = "contains"
	OpGreater  = "greater"
	OpLess     = "less"
	OpExists   = "exists"
)

// Filter фильтрует последовательность.
//
// Вход: array. Свойства: field, operator, value.
// Для объектов сравнивается item[field], скалярные элементы сравниваются
// целиком (так список чисел фильтруется по значению). null-элементы
// отбрасываются. Неизвестный оператор оставляет все элементы.
//
// Outputs: {"filtered": [...]}; если вход не последовательность — пустой список.
func Filter(inputs map[string]domain.Value, props []domain.Property) (map[string]domain.Value, error) {
	items, ok := inputs["array"].AsList()
	if !ok {
		return map[string]domain.Value{"filtered": domain.List()}, nil
	}

	field := PropertyString(props, "field")
	operator := PropertyString(props, "operator")
	value, _ := PropertyValue(props, "value")

	filtered := make([]domain.Value, 0, len(items))
	for _, item := range items {
		if item.IsNull() {
			continue
		}

		fieldValue, present := item, true
		if item.IsMap() {
			fieldValue, present = item.Field(field)
		} else if item.IsList() {
			present = false
		}

		if match(operator, fieldValue, present, value) {
			filtered = append(filtered, item)
		}
	}

	return map[string]domain.Value{"filtered": domain.List(filtered...)}, nil
}

// match применяет оператор к значению поля.
// present == false означает, что поля нет.
func match(operator string, fieldValue domain.Value, present bool, value domain.Value) bool {
	switch operator {
	case OpEquals:
		return present && looseEqual(fieldValue, value)
	case OpContains:
		text := "undefined"
		if present {
			text = fieldValue.String()
		}
		return strings.Contains(strings.ToLower(text), strings.ToLower(value.String()))
	case OpGreater, OpLess:
		if !present {
			return false
		}
		a, ok := fieldValue.ToNumber()
		if !ok {
			return false
		}
		b, ok := value.ToNumber()
		if !ok {
			return false
		}
		if operator == OpGreater {
			return a > b
		}
		return a < b
	case OpExists:
		return present && !fieldValue.IsNull()
	default:
		return true
	}
}

// looseEqual сравнивает значение поля со значением свойства.
//
// Свойства из текстовых полей ввода приходят строками, поэтому строка
// свойства сравнивается с отображаемым видом скаляра: "10" == 10.
func looseEqual(fieldValue, value domain.Value) bool {
	if fieldValue.Equal(value) {
		return true
	}
	if s, ok := value.AsString(); ok {
		switch fieldValue.Kind() {
		case domain.KindNumber, domain.KindBool:
			return fieldValue.String() == s
		}
	}
	return false
}
