package verify_booking

import (
	"context"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
)

// VerificationRepository интерфейс репозитория подтверждений email
type VerificationRepository interface {
	GetByToken(ctx context.Context, token string) (*domain.EmailVerification, error)
	MarkVerified(ctx context.Context, token string, verifiedAt time.Time) (bool, error)
	AddTrusted(ctx context.Context, therapistID int64, email string) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	MarkVerified(ctx context.Context, id int64) error
	Confirm(ctx context.Context, id int64, confirmedAt time.Time) error
}

// SettingsProvider возвращает настройки терапевта
type SettingsProvider interface {
	GetOrCreate(ctx context.Context, therapistID int64) (*domain.BookingSettings, error)
}

// Notifier отправляет письма после фиксации транзакции (best-effort)
type Notifier interface {
	NotifyNewRequest(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings)
	SendConfirmation(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
