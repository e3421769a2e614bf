package domain

import "errors"

// Ошибки редактирования графа.
var (
	// ErrCardNotFound — карточка не найдена в pipeline.
	ErrCardNotFound = errors.New("card not found")

	// ErrPortNotFound — порт не найден на карточке.
	ErrPortNotFound = errors.New("port not found")

	// ErrPortDirection — соединение должно идти из output в input.
	ErrPortDirection = errors.New("connection must go from an output port to an input port")

	// ErrInputAlreadyConnected — у входного порта уже есть входящее соединение.
	ErrInputAlreadyConnected = errors.New("input port already has an incoming connection")

	// ErrConnectionNotFound — соединение не найдено.
	ErrConnectionNotFound = errors.New("connection not found")
)

// ConnectionError — отказ в создании соединения с контекстом.
type ConnectionError struct {
	CardID string // карточка, на которой обнаружена проблема
	PortID string // порт, на котором обнаружена проблема
	Err    error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ConnectionError) Error() string {
	msg := e.Err.Error()
	if e.CardID != "" {
		msg = "card " + e.CardID + ": " + msg
	}
	if e.PortID != "" {
		msg += " (port " + e.PortID + ")"
	}
	return msg
}

// Unwrap возвращает базовую ошибку.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}
