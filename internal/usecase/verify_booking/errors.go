package verify_booking

import "errors"

var (
	// ErrTokenNotFound возвращается, когда токен подтверждения не найден
	ErrTokenNotFound = errors.New("verify_booking: verification token not found")

	// ErrTokenExpired возвращается, когда срок действия токена истек
	ErrTokenExpired = errors.New("verify_booking: verification token expired")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("verify_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("verify_booking: internal error")
)
