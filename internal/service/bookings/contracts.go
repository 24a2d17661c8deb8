package bookings

import (
	"context"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByVisitorToken(ctx context.Context, token string) (*domain.Booking, error)
	GetByTherapistWithFilter(ctx context.Context, filter domain.TherapistBookingsFilter) ([]*domain.Booking, error)
	Confirm(ctx context.Context, id int64, confirmedAt time.Time) error
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason *string, by domain.CancelledBy, cancelledAt time.Time) error
}

// SettingsProvider возвращает настройки терапевта (часовой пояс, политика)
type SettingsProvider interface {
	GetOrCreate(ctx context.Context, therapistID int64) (*domain.BookingSettings, error)
}

// ProfileServiceClient интерфейс клиента для ProfileService
type ProfileServiceClient interface {
	GetTherapist(ctx context.Context, therapistID int64) (*profileservice.TherapistProfile, error)
}

// Notifier отправляет письма об изменении статуса (best-effort)
type Notifier interface {
	SendConfirmation(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings)
	SendCancellation(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings)
}

// TimeProvider интерфейс для получения текущего времени (для тестируемости)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider с реальным временем
type RealTimeProvider struct{}

// Now возвращает текущее время
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
