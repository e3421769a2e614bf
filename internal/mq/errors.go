package mq

import "errors"

var (
	// ErrNoChannel — AMQP канал недоступен (нет соединения).
	ErrNoChannel = errors.New("no channel available")

	// ErrReject — обработчик отказывается от сообщения навсегда.
	// Consumer отправляет такое сообщение в DLQ без повторной доставки.
	ErrReject = errors.New("message rejected")
)

// Reject помечает ошибку обработки как постоянную.
func Reject(err error) error {
	return errors.Join(ErrReject, err)
}
