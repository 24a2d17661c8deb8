package lookup_booking

import (
	"context"

	"github.com/m04kA/HTM-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetByVisitorToken(ctx context.Context, token string) (*models.VisitorBookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
