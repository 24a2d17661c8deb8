package availability

import (
	"context"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
)

// WeeklyAvailabilityRepository интерфейс репозитория недельного шаблона
type WeeklyAvailabilityRepository interface {
	GetByTherapist(ctx context.Context, therapistID int64) ([]*domain.WeeklyAvailabilitySlot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByTherapist(ctx context.Context, therapistID int64, fromDate, toDate time.Time) ([]*domain.Booking, error)
}

// BusySource источник занятости из внешнего календаря
type BusySource interface {
	BusyIntervals(ctx context.Context, therapistID int64, from, to time.Time) ([]domain.BusyInterval, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
