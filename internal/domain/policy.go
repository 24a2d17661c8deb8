package domain

import "time"

// ConfirmationPolicy maps requires_approval to whether a verified booking is confirmed automatically
type ConfirmationPolicy map[bool]bool

// DefaultConfirmationPolicy manual approval keeps the booking pending, otherwise it is confirmed
var DefaultConfirmationPolicy = ConfirmationPolicy{
	true:  false,
	false: true,
}

// AutoConfirm returns the decision for the given settings
func (p ConfirmationPolicy) AutoConfirm(settings *BookingSettings) bool {
	return p[settings.RequiresApproval]
}

// ReminderThreshold reminder kind
type ReminderThreshold string

const (
	Reminder24h ReminderThreshold = "24h"
	Reminder1h  ReminderThreshold = "1h"
)

// ReminderThresholds order in which a reminder pass processes the windows
var ReminderThresholds = []ReminderThreshold{Reminder24h, Reminder1h}

// Window returns [from, to] offsets relative to now for the threshold
func (t ReminderThreshold) Window() (time.Duration, time.Duration) {
	if t == Reminder24h {
		return 23*time.Hour + 30*time.Minute, 24*time.Hour + 30*time.Minute
	}
	return 30 * time.Minute, 90 * time.Minute
}

// InWindow reports whether start lies within [now+from, now+to]
func (t ReminderThreshold) InWindow(start, now time.Time) bool {
	from, to := t.Window()
	return !start.Before(now.Add(from)) && !start.After(now.Add(to))
}
