// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий запусков
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - execution.requested — запрос на выполнение pipeline (потребитель: worker)
//   - execution.completed — запуск завершён (внешние подписчики)
//
// Exchanges:
//   - cardflow.executions — события запусков
//   - cardflow.dlq        — dead letter queue
package mq
