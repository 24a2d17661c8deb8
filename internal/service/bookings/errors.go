package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrTherapistNotFound возвращается, когда профиль терапевта не найден
	ErrTherapistNotFound = errors.New("therapist not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование уже в конечном статусе
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrNotVerified возвращается при попытке подтвердить бронирование с неподтвержденным email
	ErrNotVerified = errors.New("visitor email is not verified")

	// ErrInvalidTransition возвращается, когда переход статуса не разрешен
	ErrInvalidTransition = errors.New("booking status transition is not allowed")

	// ErrSessionNotEnded возвращается при попытке закрыть сессию до её окончания
	ErrSessionNotEnded = errors.New("session has not ended yet")

	// ErrStaleState возвращается, когда статус изменился параллельно
	ErrStaleState = errors.New("booking was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings.service: internal error")
)
