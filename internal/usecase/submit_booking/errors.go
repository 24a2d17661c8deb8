package submit_booking

import "errors"

var (
	// ErrTherapistNotFound возвращается, когда профиль терапевта не найден
	ErrTherapistNotFound = errors.New("submit_booking: therapist not found")

	// ErrOnlineBookingDisabled возвращается, когда терапевт не принимает онлайн-записи
	ErrOnlineBookingDisabled = errors.New("submit_booking: therapist does not accept online booking")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("submit_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает max_booking_days_ahead
	ErrDateTooFarInFuture = errors.New("submit_booking: date is too far in the future")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает ни с одним слотом шаблона
	ErrInvalidTimeSlot = errors.New("submit_booking: invalid time slot")

	// ErrTooLateToBook возвращается, когда слот нарушает min_booking_notice_hours
	ErrTooLateToBook = errors.New("submit_booking: too late to book this slot")

	// ErrSlotUnavailable возвращается, когда слот уже занят (в том числе проигранная гонка)
	ErrSlotUnavailable = errors.New("submit_booking: slot is no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_booking: internal error")
)
