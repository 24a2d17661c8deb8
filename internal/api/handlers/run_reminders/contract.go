package run_reminders

import (
	"context"

	runReminderPass "github.com/m04kA/HTM-BookingService/internal/usecase/run_reminder_pass"
)

type RunReminderPassUseCase interface {
	Execute(ctx context.Context) (*runReminderPass.Summary, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
