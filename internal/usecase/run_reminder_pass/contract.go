package run_reminder_pass

import (
	"context"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetReminderCandidates(ctx context.Context, threshold domain.ReminderThreshold, fromDate, toDate time.Time) ([]*domain.Booking, error)
	MarkReminderSent(ctx context.Context, id int64, threshold domain.ReminderThreshold, sentAt time.Time) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// SettingsProvider возвращает настройки терапевта
type SettingsProvider interface {
	GetOrCreate(ctx context.Context, therapistID int64) (*domain.BookingSettings, error)
}

// Notifier отправляет напоминания и возвращает ошибку доставки
type Notifier interface {
	SendVisitorReminder(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings, threshold domain.ReminderThreshold) error
	SendTherapistReminder(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings, threshold domain.ReminderThreshold) error
}

// Locker распределенная блокировка (booking, threshold) между параллельными проходами
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Unlock(ctx context.Context, key, value string) error
}

// Metrics счетчики напоминаний
type Metrics interface {
	IncReminderSent(threshold string)
	IncReminderError(threshold string)
}

type nopMetrics struct{}

func (nopMetrics) IncReminderSent(string)  {}
func (nopMetrics) IncReminderError(string) {}

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
