package replace_weekly_availability

import (
	"context"

	"github.com/m04kA/HTM-BookingService/internal/service/settings/models"
)

type SettingsService interface {
	ReplaceWeeklyAvailability(ctx context.Context, req *models.ReplaceWeeklyAvailabilityRequest) (*models.WeeklyAvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
