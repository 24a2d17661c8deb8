package availability

import "errors"

var (
	// ErrInvalidTemplate возвращается, когда в недельном шаблоне некорректное время
	ErrInvalidTemplate = errors.New("availability: invalid weekly template")

	// ErrInvalidMonth возвращается при некорректном годе или месяце
	ErrInvalidMonth = errors.New("availability: invalid month")

	// ErrInternal возвращается при внутренних ошибках движка
	ErrInternal = errors.New("availability: internal error")
)
