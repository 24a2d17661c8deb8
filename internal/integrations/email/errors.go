package email

import "errors"

var (
	// ErrSendFailed возвращается, когда провайдер не принял письмо
	ErrSendFailed = errors.New("email: send failed")

	// ErrInvalidMessage возвращается для письма без получателя или темы
	ErrInvalidMessage = errors.New("email: invalid message")

	// ErrUnknownProvider возвращается для неизвестного провайдера в конфигурации
	ErrUnknownProvider = errors.New("email: unknown provider")
)
