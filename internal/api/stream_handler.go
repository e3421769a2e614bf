package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shaiso/Cardflow/internal/domain"
	"github.com/shaiso/Cardflow/internal/engine"
)

const (
	streamReadWait  = 30 * time.Second
	streamWriteWait = 10 * time.Second

	// Лимит на первое сообщение (pipeline целиком).
	streamMaxMessageSize = 8 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// UI обслуживается с другого origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamExecution выполняет pipeline и отправляет результат каждой
// карточки сразу после её выполнения.
//
// Клиент отправляет одно сообщение ExecuteRequest. Сервер отвечает
// сообщениями {"type":"card"} по одному на карточку, затем
// {"type":"execution"} или {"type":"error"} и закрывает соединение.
// GET /api/v1/executions/stream
func (h *Handler) StreamExecution(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже отправил ответ с ошибкой
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(streamMaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(streamReadWait))

	var req ExecuteRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.writeStream(conn, StreamMessage{
			Type:  StreamError,
			Error: &ErrorDetail{Code: ErrCodeBadRequest, Message: "invalid request message"},
		})
		return
	}

	p, err := h.checkExecuteRequest(&req)
	if err != nil {
		h.writeStream(conn, StreamMessage{
			Type:  StreamError,
			Error: &ErrorDetail{Code: ErrCodeValidation, Message: validationMessage(err)},
		})
		return
	}

	exec, err := h.runner.Run(r.Context(), p, func(_ *domain.Card, res domain.ExecutionResult) {
		h.writeStream(conn, StreamMessage{Type: StreamCard, Result: &res})
	})
	if err != nil {
		code := ErrCodeInternalError
		if errors.Is(err, engine.ErrCircularDependency) {
			code = ErrCodeCircularDependency
		}
		h.writeStream(conn, StreamMessage{
			Type:      StreamError,
			Execution: exec,
			Error:     &ErrorDetail{Code: code, Message: err.Error()},
		})
		return
	}

	if h.writeStream(conn, StreamMessage{Type: StreamExecution, Execution: exec}) {
		conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}

// writeStream отправляет сообщение. Возвращает false, если клиент недоступен.
func (h *Handler) writeStream(conn *websocket.Conn, msg StreamMessage) bool {
	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Debug("websocket write failed", "type", msg.Type, "error", err)
		return false
	}
	return true
}
