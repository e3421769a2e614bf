// Package executors содержит реестр функций карточек и десять встроенных функций.
//
// # Сигнатура
//
// Все функции карточек имеют одну сигнатуру:
//
//	type Func func(inputs map[string]domain.Value, props []domain.Property) (map[string]domain.Value, error)
//
// inputs — значения входных портов по имени порта (только подключённые порты).
// props — свойства карточки. Результат — значения выходных портов по имени.
// Нормализация результата в последовательности выполняется движком.
//
// # Registry
//
//	registry := executors.Default(executors.Config{MaxItems: 1000})
//	fn, err := registry.Get("numberGenerator")
//	if errors.Is(err, executors.ErrExecutorNotFound) {
//	    // неизвестное имя
//	}
//
// Регистрация проверяет имя и функцию сразу, поэтому ошибки
// диспетчеризации обнаруживаются при загрузке каталога, а не при вызове.
//
// # Встроенные функции
//
//   - personGenerator, companyGenerator, numberGenerator,
//     phoneGenerator, internetGenerator, locationGenerator — генераторы
//     (gofakeit); количество берётся из входа count, затем из свойства count, затем 10
//   - filterGenerator — фильтрация массива по полю и оператору
//   - transformGenerator — pluck / groupBy / sort
//   - printArrayExecutor, jsonPreviewExecutor — передача данных для просмотра
package executors
