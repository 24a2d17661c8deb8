package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_Transitions(t *testing.T) {
	tests := []struct {
		name   string
		status BookingStatus
		next   BookingStatus
		want   bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true},
		{"confirmed to no_show", StatusConfirmed, StatusNoShow, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"no_show is terminal", StatusNoShow, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.status}
			assert.Equal(t, tt.want, b.CanTransitionTo(tt.next))
		})
	}
}

func TestBooking_CanBeConfirmed_RequiresVerification(t *testing.T) {
	assert.False(t, (&Booking{Status: StatusPending}).CanBeConfirmed())
	assert.True(t, (&Booking{Status: StatusPending, IsVerified: true}).CanBeConfirmed())
	assert.False(t, (&Booking{Status: StatusConfirmed, IsVerified: true}).CanBeConfirmed())
}

func TestBooking_HasEnded_UsesTherapistTimezone(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	b := &Booking{
		BookingDate: time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		EndTime:     "11:00",
	}

	// 11:00 в Нью-Йорке (EDT, UTC-4) = 15:00 UTC
	assert.False(t, b.HasEnded(time.Date(2026, time.October, 19, 14, 59, 0, 0, time.UTC), loc))
	assert.True(t, b.HasEnded(time.Date(2026, time.October, 19, 15, 0, 0, 0, time.UTC), loc))
}

func TestConfirmationPolicy(t *testing.T) {
	assert.True(t, DefaultConfirmationPolicy.AutoConfirm(&BookingSettings{RequiresApproval: false}))
	assert.False(t, DefaultConfirmationPolicy.AutoConfirm(&BookingSettings{RequiresApproval: true}))
}

func TestReminderThreshold_InWindow(t *testing.T) {
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	assert.True(t, Reminder24h.InWindow(now.Add(24*time.Hour), now))
	assert.True(t, Reminder24h.InWindow(now.Add(23*time.Hour+30*time.Minute), now))
	assert.True(t, Reminder24h.InWindow(now.Add(24*time.Hour+30*time.Minute), now))
	assert.False(t, Reminder24h.InWindow(now.Add(23*time.Hour+29*time.Minute), now))
	assert.False(t, Reminder24h.InWindow(now.Add(24*time.Hour+31*time.Minute), now))

	assert.True(t, Reminder1h.InWindow(now.Add(time.Hour), now))
	assert.False(t, Reminder1h.InWindow(now.Add(29*time.Minute), now))
	assert.False(t, Reminder1h.InWindow(now.Add(91*time.Minute), now))
}

func TestOverlaps_WithBuffer(t *testing.T) {
	day := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }
	busy := BusyInterval{Start: at(10, 0), End: at(10, 30)}
	buffer := 15 * time.Minute

	assert.False(t, Overlaps(at(9, 0), at(9, 30), busy, buffer))
	assert.True(t, Overlaps(at(9, 30), at(10, 0), busy, buffer))
	assert.True(t, Overlaps(at(10, 30), at(11, 0), busy, buffer))
	assert.False(t, Overlaps(at(11, 0), at(11, 30), busy, buffer))
	assert.False(t, Overlaps(at(10, 45), at(11, 15), busy, buffer))
}
