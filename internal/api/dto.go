package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shaiso/Cardflow/internal/domain"
)

// Execution DTOs

// ExecuteRequest — запрос на выполнение pipeline.
// Тот же формат принимает websocket /executions/stream первым сообщением.
type ExecuteRequest struct {
	Pipeline *domain.Pipeline `json:"pipeline" validate:"required"`
}

// QueuedResponse — ответ на постановку pipeline в очередь.
type QueuedResponse struct {
	MessageID  string `json:"message_id"`
	PipelineID string `json:"pipeline_id"`
}

// ExecutionSummary — запуск без результатов карточек (для списков).
type ExecutionSummary struct {
	ID          uuid.UUID              `json:"id"`
	PipelineID  string                 `json:"pipelineId"`
	Status      domain.ExecutionStatus `json:"status"`
	StartTime   time.Time              `json:"startTime"`
	EndTime     *time.Time             `json:"endTime,omitempty"`
	Cards       int                    `json:"cards"`
	FailedCards int                    `json:"failedCards"`
	Error       string                 `json:"error,omitempty"`
}

// ExecutionSummaryFromDomain конвертирует domain.PipelineExecution в ExecutionSummary.
func ExecutionSummaryFromDomain(e domain.PipelineExecution) ExecutionSummary {
	return ExecutionSummary{
		ID:          e.ID,
		PipelineID:  e.PipelineID,
		Status:      e.Status,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Cards:       len(e.Results),
		FailedCards: e.FailedCards(),
		Error:       e.Error,
	}
}

// Card DTOs

// CreateCardRequest — запрос на создание карточки из определения.
// Тело запроса опционально.
type CreateCardRequest struct {
	Position domain.Position `json:"position"`
	Name     string          `json:"name,omitempty" validate:"omitempty,max=200"`
}

// Stream DTOs

// StreamMessageType — тип сообщения websocket.
type StreamMessageType string

const (
	StreamCard      StreamMessageType = "card"
	StreamExecution StreamMessageType = "execution"
	StreamError     StreamMessageType = "error"
)

// StreamMessage — сообщение, которое сервер отправляет в websocket.
type StreamMessage struct {
	Type      StreamMessageType         `json:"type"`
	Result    *domain.ExecutionResult   `json:"result,omitempty"`
	Execution *domain.PipelineExecution `json:"execution,omitempty"`
	Error     *ErrorDetail              `json:"error,omitempty"`
}

// validationMessage превращает ошибку validator в читаемый текст.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
