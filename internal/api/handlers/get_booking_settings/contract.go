package get_booking_settings

import (
	"context"

	"github.com/m04kA/HTM-BookingService/internal/service/settings/models"
)

type SettingsService interface {
	GetSettings(ctx context.Context, therapistID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
