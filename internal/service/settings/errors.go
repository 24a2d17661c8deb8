package settings

import "errors"

var (
	// ErrTherapistNotFound возвращается, когда профиль терапевта не найден
	ErrTherapistNotFound = errors.New("therapist not found")

	// ErrAccessDenied возвращается, когда пользователь не владеет профилем терапевта
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("settings.service: internal error")
)
