package worker

import "errors"

// Ошибки воркера.
var (
	// ErrMissingPipeline — в payload нет pipeline.
	ErrMissingPipeline = errors.New("payload has no pipeline")

	// ErrUnexpectedMessage — тип сообщения не execution.requested.
	ErrUnexpectedMessage = errors.New("unexpected message type")
)
