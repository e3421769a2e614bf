package executors

import (
	"github.com/shaiso/Cardflow/internal/domain"
)

// Func — функция карточки.
//
// inputs — значения подключённых входных портов по имени порта.
// props — свойства карточки.
// Возвращает значения выходных портов по имени: скаляр, список или map.
type Func func(inputs map[string]domain.Value, props []domain.Property) (map[string]domain.Value, error)

// PropertyValue возвращает значение свойства по имени.
func PropertyValue(props []domain.Property, name string) (domain.Value, bool) {
	for _, p := range props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return domain.Null(), false
}

// PropertyString возвращает строковое представление свойства.
// Для отсутствующего свойства возвращает "".
func PropertyString(props []domain.Property, name string) string {
	v, ok := PropertyValue(props, name)
	if !ok || v.IsNull() {
		return ""
	}
	return v.String()
}

// PropertyBool возвращает истинность свойства.
func PropertyBool(props []domain.Property, name string) bool {
	v, ok := PropertyValue(props, name)
	if !ok {
		return false
	}
	return v.Truthy()
}

// PropertyNumber возвращает числовое значение свойства.
// ok == false, если свойства нет или оно не приводится к числу.
func PropertyNumber(props []domain.Property, name string) (float64, bool) {
	v, ok := PropertyValue(props, name)
	if !ok || v.IsNull() {
		return 0, false
	}
	return v.ToNumber()
}
