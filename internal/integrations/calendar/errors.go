package calendar

import "errors"

var (
	// ErrProviderUnavailable возвращается, когда внешний календарь не ответил.
	// Вызывающий код должен продолжить работу без внешней занятости.
	ErrProviderUnavailable = errors.New("calendar: provider unavailable")

	// ErrUnsupportedProvider возвращается для неизвестного провайдера подключения
	ErrUnsupportedProvider = errors.New("calendar: unsupported provider")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("calendar: invalid provider response")
)
