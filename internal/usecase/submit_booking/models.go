package submit_booking

import (
	"time"

	"github.com/m04kA/HTM-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования посетителем
type Request struct {
	TherapistID   int64     `validate:"gt=0"`
	ServiceID     *int64    `validate:"omitempty,gt=0"`
	Date          time.Time // Дата в часовом поясе терапевта (без времени)
	StartTime     string    `validate:"required"`
	EndTime       string    // Опционально: по умолчанию start + slot_duration
	SessionFormat string    `validate:"omitempty,oneof=online in-person phone"`
	VisitorName   string    `validate:"required,max=200"`
	VisitorEmail  string    `validate:"required,email,max=320"`
	VisitorPhone  *string   `validate:"omitempty,max=32"`
	VisitorNotes  *string   `validate:"omitempty,max=2000"`
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID                   int64
	TherapistProfileID   int64
	BookingDate          time.Time
	StartTime            types.TimeString
	EndTime              types.TimeString
	DurationMinutes      int
	SessionFormat        string
	Status               string
	IsVerified           bool
	VisitorToken         string // приватная ссылка посетителя для просмотра и отмены
	RequiresVerification bool   // письмо с подтверждением email отправлено
	CreatedAt            time.Time
}
