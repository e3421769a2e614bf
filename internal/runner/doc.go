// Package runner оборачивает один прогон движка в запуск pipeline.
//
// Runner отвечает за:
//   - Создание PipelineExecution и перевод его в completed/error
//   - Обогащение логгера pipeline_id и execution_id
//   - Метрики по карточкам и запускам
//   - Сохранение истории, обновление кэша последнего запуска
//     и публикацию события execution.completed
//
// Сохранение, кэш и события — best-effort: их ошибки логируются
// и не влияют на результат запуска.
package runner
