package verify_booking

import (
	"context"

	verifyBooking "github.com/m04kA/HTM-BookingService/internal/usecase/verify_booking"
)

type VerifyBookingUseCase interface {
	Execute(ctx context.Context, req *verifyBooking.Request) (*verifyBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
