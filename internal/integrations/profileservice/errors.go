package profileservice

import "errors"

var (
	// ErrTherapistNotFound возвращается, когда профиль терапевта не найден или не опубликован
	ErrTherapistNotFound = errors.New("therapist profile not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("profileservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("profileservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что ProfileService недоступен и данные профиля следует пропустить
	ErrServiceDegraded = errors.New("profileservice unavailable: graceful degradation applied")
)
