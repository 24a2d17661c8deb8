package notifications

import (
	"context"

	"github.com/m04kA/HTM-BookingService/internal/integrations/email"
	"github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
)

// Sender интерфейс отправителя писем
type Sender interface {
	Send(ctx context.Context, msg email.Message) (*email.SendResult, error)
}

// ProfileServiceClient интерфейс клиента для ProfileService
type ProfileServiceClient interface {
	GetTherapistWithGracefulDegradation(ctx context.Context, therapistID int64) (*profileservice.TherapistProfile, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
