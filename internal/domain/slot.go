package domain

import (
	"time"

	"github.com/m04kA/HTM-BookingService/pkg/types"
)

// TimeSlot bookable slot in the therapist's wall clock
type TimeSlot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	StartsAt  time.Time
	EndsAt    time.Time
}

// Overlaps reports whether [start, end) intersects the busy range widened by buffer
// on both sides. Touching boundaries do not count as an overlap.
func Overlaps(start, end time.Time, busy BusyInterval, buffer time.Duration) bool {
	return start.Before(busy.End.Add(buffer)) && end.After(busy.Start.Add(-buffer))
}
