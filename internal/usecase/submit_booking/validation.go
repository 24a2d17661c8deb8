package submit_booking

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/pkg/types"
)

var validate = validator.New()

// validateRequest валидирует поля формы
func validateRequest(req *Request) error {
	req.VisitorName = strings.TrimSpace(req.VisitorName)
	req.VisitorEmail = strings.TrimSpace(req.VisitorEmail)

	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, err := types.NewTimeStringFromString(req.StartTime); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.EndTime != "" {
		if _, err := types.NewTimeStringFromString(req.EndTime); err != nil {
			return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// resolveSlotTimes возвращает начало и конец запрошенного слота
func resolveSlotTimes(req *Request, slotDurationMinutes int) (types.TimeString, types.TimeString, error) {
	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.EndTime != "" {
		end, err := types.NewTimeStringFromString(req.EndTime)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return start, end, nil
	}

	end, err := start.AddMinutes(slotDurationMinutes)
	if err != nil {
		return "", "", fmt.Errorf("%w: slot does not fit into the day", ErrInvalidTimeSlot)
	}
	return start, end, nil
}

// sessionFormat возвращает формат сессии (по умолчанию online)
func sessionFormat(req *Request) domain.SessionFormat {
	if req.SessionFormat == "" {
		return domain.SessionOnline
	}
	return domain.SessionFormat(req.SessionFormat)
}

// overlapsActive проверяет пересечение слота с активными бронированиями (с учетом буфера)
func overlapsActive(slot domain.TimeSlot, bookings []*domain.Booking, settings *domain.BookingSettings) *domain.Booking {
	loc := settings.Location()
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		busy := domain.BusyInterval{Start: b.StartsAt(loc), End: b.EndsAt(loc)}
		if domain.Overlaps(slot.StartsAt, slot.EndsAt, busy, settings.Buffer()) {
			return b
		}
	}
	return nil
}
