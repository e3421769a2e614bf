// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go           — Handler с DI (каталог, runner, история, кэш, очередь)
//   - routes.go            — регистрация маршрутов
//   - middleware.go        — middleware (logging, recovery, metrics)
//   - response.go          — унифицированные JSON-ответы и обработка ошибок
//   - dto.go               — Data Transfer Objects (request/response)
//   - card_handler.go      — обработчики для /cards
//   - execution_handler.go — обработчики для /executions и /pipelines/{id}/executions
//   - stream_handler.go    — websocket с результатами по карточкам
package api
