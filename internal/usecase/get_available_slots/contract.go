package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
	"github.com/m04kA/HTM-BookingService/internal/service/availability"
)

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
