package settings

import (
	"context"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
)

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	Get(ctx context.Context, therapistID int64) (*domain.BookingSettings, error)
	CreateDefault(ctx context.Context, therapistID int64) (*domain.BookingSettings, error)
	Update(ctx context.Context, settings *domain.BookingSettings) (*domain.BookingSettings, error)
}

// WeeklyAvailabilityRepository интерфейс репозитория недельного шаблона
type WeeklyAvailabilityRepository interface {
	GetByTherapist(ctx context.Context, therapistID int64) ([]*domain.WeeklyAvailabilitySlot, error)
	ReplaceForTherapist(ctx context.Context, therapistID int64, slots []*domain.WeeklyAvailabilitySlot) error
}

// ProfileServiceClient интерфейс клиента для ProfileService
type ProfileServiceClient interface {
	GetTherapist(ctx context.Context, therapistID int64) (*profileservice.TherapistProfile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
