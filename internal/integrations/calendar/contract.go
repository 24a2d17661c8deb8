package calendar

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/HTM-BookingService/internal/domain"
)

// ConnectionRepository интерфейс для работы с подключениями календарей
type ConnectionRepository interface {
	GetActiveByTherapist(ctx context.Context, therapistID int64) (*domain.CalendarConnection, error)
	UpdateSyncStatus(ctx context.Context, id int64, syncedAt time.Time, syncErr *string) error
	UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt *time.Time) error
}

// Provider получает занятые интервалы из внешнего календаря.
// client уже авторизован OAuth токеном подключения.
type Provider interface {
	BusyIntervals(ctx context.Context, client *http.Client, conn *domain.CalendarConnection, from, to time.Time) ([]domain.BusyInterval, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

// Now возвращает текущее время
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
