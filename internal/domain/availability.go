package domain

import (
	"time"

	"github.com/m04kA/HTM-BookingService/pkg/types"
)

// WeeklyAvailabilitySlot one recurring open range of the therapist's weekly template
type WeeklyAvailabilitySlot struct {
	ID                 int64
	TherapistProfileID int64
	DayOfWeek          int // 0 = Sunday ... 6 = Saturday
	StartTime          types.TimeString
	EndTime            types.TimeString
	CreatedAt          time.Time
}

// AppliesTo returns true if the range belongs to the weekday of date
func (w *WeeklyAvailabilitySlot) AppliesTo(date time.Time) bool {
	return int(date.Weekday()) == w.DayOfWeek
}
