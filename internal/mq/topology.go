package mq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeExecutions Exchange = "cardflow.executions"
	ExchangeDLQ        Exchange = "cardflow.dlq"
)

// Queues — имена очередей.
const (
	QueueExecutionsRequested Queue = "executions.requested"
	QueueExecutionsCompleted Queue = "executions.completed"
	QueueDLQExecutions       Queue = "dlq.executions"
)

// Routing keys.
const (
	RoutingKeyRequested     RoutingKey = "requested"
	RoutingKeyCompleted     RoutingKey = "completed"
	RoutingKeyDLQExecutions RoutingKey = "executions"
)

// Ограничения executions.completed. Очередь читают только внешние подписчики.
const (
	CompletedMessageTTL = 24 * time.Hour
	CompletedMaxLength  = 10000
)

type exchangeDecl struct {
	name Exchange
	kind string
}

type queueDecl struct {
	name Queue
	args amqp.Table
}

type bindingDecl struct {
	queue      Queue
	routingKey RoutingKey
	exchange   Exchange
}

// SetupTopology объявляет exchanges, queues и bindings. Операция идемпотентна.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		for _, ex := range exchanges() {
			err := ch.ExchangeDeclare(
				string(ex.name), // name
				ex.kind,         // type
				true,            // durable
				false,           // auto-deleted
				false,           // internal
				false,           // no-wait
				nil,             // arguments
			)
			if err != nil {
				return fmt.Errorf("declare exchange %s: %w", ex.name, err)
			}
		}

		for _, q := range queues() {
			_, err := ch.QueueDeclare(
				string(q.name), // name
				true,           // durable
				false,          // delete when unused
				false,          // exclusive
				false,          // no-wait
				q.args,         // arguments
			)
			if err != nil {
				return fmt.Errorf("declare queue %s: %w", q.name, err)
			}
		}

		for _, b := range bindings() {
			err := ch.QueueBind(
				string(b.queue),      // queue name
				string(b.routingKey), // routing key
				string(b.exchange),   // exchange
				false,                // no-wait
				nil,                  // arguments
			)
			if err != nil {
				return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
			}
		}

		return nil
	})
}

func exchanges() []exchangeDecl {
	return []exchangeDecl{
		{ExchangeExecutions, "direct"},
		{ExchangeDLQ, "direct"},
	}
}

func queues() []queueDecl {
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQExecutions),
	}

	return []queueDecl{
		// executions.requested — отклонённые запросы уходят в DLQ
		{QueueExecutionsRequested, dlqArgs},

		// executions.completed — события завершения, без DLQ;
		// старые события вытесняются при переполнении
		{QueueExecutionsCompleted, amqp.Table{
			"x-message-ttl": CompletedMessageTTL.Milliseconds(),
			"x-max-length":  int64(CompletedMaxLength),
			"x-overflow":    "drop-head",
		}},

		{QueueDLQExecutions, nil},
	}
}

func bindings() []bindingDecl {
	return []bindingDecl{
		{QueueExecutionsRequested, RoutingKeyRequested, ExchangeExecutions},
		{QueueExecutionsCompleted, RoutingKeyCompleted, ExchangeExecutions},
		{QueueDLQExecutions, RoutingKeyDLQExecutions, ExchangeDLQ},
	}
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Cardflow RabbitMQ Topology:

    cardflow.executions (direct)
    ├── executions.requested [routing: requested]
    │       Consumer: Worker
    │       DLQ: dlq.executions
    └── executions.completed [routing: completed, ttl 24h, max 10000]
            Consumer: external subscribers

    cardflow.dlq (direct)
    └── dlq.executions [routing: executions]
            Manual processing
  `
}
