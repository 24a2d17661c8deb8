package get_available_dates

import (
	"context"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
)

// DateEngine движок расчета доступных дат
type DateEngine interface {
	Dates(ctx context.Context, settings *domain.BookingSettings, year int, month time.Month, now time.Time) ([]time.Time, error)
}

// SettingsProvider возвращает настройки терапевта, создавая их при первом обращении
type SettingsProvider interface {
	GetOrCreate(ctx context.Context, therapistID int64) (*domain.BookingSettings, error)
}

// ProfileServiceClient интерфейс клиента для ProfileService
type ProfileServiceClient interface {
	GetTherapist(ctx context.Context, therapistID int64) (*profileservice.TherapistProfile, error)
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
