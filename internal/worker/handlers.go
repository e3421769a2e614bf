package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/shaiso/Cardflow/internal/engine"
	"github.com/shaiso/Cardflow/internal/mq"
	"github.com/shaiso/Cardflow/internal/pipelinefile"
	"github.com/shaiso/Cardflow/internal/telemetry"
)

// handleExecutionRequested выполняет pipeline из сообщения execution.requested.
func (w *Worker) handleExecutionRequested(ctx context.Context, delivery *mq.Delivery) error {
	msg := &delivery.Message
	if msg.Type != mq.MessageTypeExecutionRequested {
		return mq.Reject(fmt.Errorf("%w: %s", ErrUnexpectedMessage, msg.Type))
	}

	payload, err := mq.ParsePayload[mq.ExecutionRequestedPayload](msg)
	if err != nil {
		return mq.Reject(err)
	}
	if payload.Pipeline == nil {
		return mq.Reject(ErrMissingPipeline)
	}
	if err := pipelinefile.Prepare(payload.Pipeline); err != nil {
		return mq.Reject(err)
	}

	// Логгер в ctx уже содержит message_id (mq.Consumer)
	logger := telemetry.WithPipelineID(telemetry.FromContextOr(ctx, w.logger), payload.Pipeline.ID)

	exec, err := w.runner.Run(ctx, payload.Pipeline, nil)
	if err != nil {
		if errors.Is(err, engine.ErrCircularDependency) {
			// Запуск завершён со статусом error, повторять бессмысленно
			return nil
		}
		return err
	}

	logger.Info("pipeline executed",
		"execution_id", exec.ID,
		"cards", len(exec.Results),
		"failed_cards", exec.FailedCards(),
		"duration", exec.Duration(),
	)
	return nil
}
