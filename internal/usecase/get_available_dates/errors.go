package get_available_dates

import "errors"

var (
	// ErrTherapistNotFound возвращается, когда профиль терапевта не найден
	ErrTherapistNotFound = errors.New("therapist not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
