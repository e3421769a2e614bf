// Package engine содержит движок выполнения pipeline.
//
// Включает:
//   - graph.go     — граф карточек и соединений (зависимости, входящие соединения)
//   - scheduler.go — топологическая сортировка (DFS с тремя цветами) и обнаружение циклов
//   - resolver.go  — сборка входов карточки из уже вычисленных выходов
//   - engine.go    — вызов функций карточек, нормализация и сбор результатов
//
// Выполнение строго последовательное: карточки выполняются по одной
// в порядке планировщика. Ошибки отдельных карточек изолированы в их
// результатах; весь запуск прерывает только цикл в графе.
//
// Использование:
//
//	eng := engine.New(engine.Config{
//	    Definitions: catalog.Default(),
//	    Executors:   executors.Default(executors.Config{}),
//	})
//	results, err := eng.Execute(ctx, pipeline)
//	if errors.Is(err, engine.ErrCircularDependency) {
//	    // ни одна карточка не выполнялась
//	}
package engine
