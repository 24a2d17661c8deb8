package submit_booking

import (
	"context"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
	"github.com/m04kA/HTM-BookingService/internal/service/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveByTherapist(ctx context.Context, therapistID int64, fromDate, toDate time.Time) ([]*domain.Booking, error)
}

// VerificationRepository интерфейс репозитория подтверждений email
type VerificationRepository interface {
	Create(ctx context.Context, v *domain.EmailVerification) (*domain.EmailVerification, error)
	IsTrusted(ctx context.Context, therapistID int64, email string) (bool, error)
}

// SlotEngine движок расчета слотов
type SlotEngine interface {
	Evaluate(ctx context.Context, settings *domain.BookingSettings, date time.Time, now time.Time) (*availability.Evaluation, error)
}

// SettingsProvider возвращает настройки терапевта, создавая их при первом обращении
type SettingsProvider interface {
	GetOrCreate(ctx context.Context, therapistID int64) (*domain.BookingSettings, error)
}

// ProfileServiceClient интерфейс клиента для ProfileService
type ProfileServiceClient interface {
	GetTherapist(ctx context.Context, therapistID int64) (*profileservice.TherapistProfile, error)
}

// Notifier отправляет письма после фиксации транзакции (best-effort)
type Notifier interface {
	SendVerification(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings, token string)
	NotifyNewRequest(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings)
	SendConfirmation(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings)
}

// Metrics счетчик попыток бронирования
type Metrics interface {
	IncBookingSubmission(result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
