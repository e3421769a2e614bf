package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Cardflow/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeExecutionRequested MessageType = "execution.requested"
	MessageTypeExecutionCompleted MessageType = "execution.completed"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// ExecutionRequestedPayload — запрос на выполнение pipeline.
type ExecutionRequestedPayload struct {
	Pipeline *domain.Pipeline `json:"pipeline"`
}

// ExecutionCompletedPayload — итог запуска.
type ExecutionCompletedPayload struct {
	ExecutionID uuid.UUID              `json:"execution_id"`
	PipelineID  string                 `json:"pipeline_id"`
	Status      domain.ExecutionStatus `json:"status"`
	Error       string                 `json:"error,omitempty"`
	Cards       int                    `json:"cards"`
	FailedCards int                    `json:"failed_cards"`
	DurationMs  int64                  `json:"duration_ms"`
}

// NewMessage создаёт сообщение с новым ID.
func NewMessage(msgType MessageType, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// CompletedPayload собирает итог запуска для события execution.completed.
func CompletedPayload(exec *domain.PipelineExecution) ExecutionCompletedPayload {
	return ExecutionCompletedPayload{
		ExecutionID: exec.ID,
		PipelineID:  exec.PipelineID,
		Status:      exec.Status,
		Error:       exec.Error,
		Cards:       len(exec.Results),
		FailedCards: exec.FailedCards(),
		DurationMs:  exec.Duration().Milliseconds(),
	}
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Type:         string(msg.Type),
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishExecutionRequested ставит pipeline в очередь на выполнение.
// Потребитель: Worker. Возвращает ID сообщения.
func (p *Publisher) PublishExecutionRequested(ctx context.Context, pipeline *domain.Pipeline) (string, error) {
	msg := NewMessage(MessageTypeExecutionRequested, ExecutionRequestedPayload{Pipeline: pipeline})
	if err := p.Publish(ctx, ExchangeExecutions, RoutingKeyRequested, msg); err != nil {
		return "", err
	}
	return msg.ID, nil
}

// PublishExecutionCompleted публикует итог завершённого запуска.
func (p *Publisher) PublishExecutionCompleted(ctx context.Context, exec *domain.PipelineExecution) error {
	msg := NewMessage(MessageTypeExecutionCompleted, CompletedPayload(exec))
	return p.Publish(ctx, ExchangeExecutions, RoutingKeyCompleted, msg)
}
