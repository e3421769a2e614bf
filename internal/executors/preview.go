package executors

import (
	"github.com/shaiso/Cardflow/internal/domain"
)

// PrintArrayFunc передаёт вход array без изменений.
//
// Outputs: {"printed": array}; без входа — пустой список.
func PrintArrayFunc(inputs map[string]domain.Value, _ []domain.Property) (map[string]domain.Value, error) {
	array, ok := inputs["array"]
	if !ok || !array.Truthy() {
		array = domain.List()
	}
	return map[string]domain.Value{"printed": array}, nil
}

// JSONPreviewFunc передаёт вход data без изменений.
//
// Outputs: {"passthrough": data}; без входа — пустой объект.
func JSONPreviewFunc(inputs map[string]domain.Value, _ []domain.Property) (map[string]domain.Value, error) {
	data, ok := inputs["data"]
	if !ok || !data.Truthy() {
		data = domain.Map(nil)
	}
	return map[string]domain.Value{"passthrough": data}, nil
}
