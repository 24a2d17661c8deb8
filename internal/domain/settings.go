package domain

import "time"

// BookingSettings per-therapist booking policy (one row per therapist)
type BookingSettings struct {
	TherapistProfileID     int64
	SlotDurationMinutes    int
	BufferMinutes          int
	MinBookingNoticeHours  int
	MaxBookingDaysAhead    int
	Timezone               string
	RequiresApproval       bool
	AcceptsOnlineBooking   bool
	SendVisitorReminders   bool
	SendTherapistReminders bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// DefaultBookingSettings returns the settings created lazily on first access
func DefaultBookingSettings(therapistID int64) *BookingSettings {
	return &BookingSettings{
		TherapistProfileID:     therapistID,
		SlotDurationMinutes:    DefaultSlotDurationMinutes,
		BufferMinutes:          DefaultBufferMinutes,
		MinBookingNoticeHours:  DefaultMinBookingNoticeHours,
		MaxBookingDaysAhead:    DefaultMaxBookingDaysAhead,
		Timezone:               DefaultTimezone,
		RequiresApproval:       DefaultRequiresApproval,
		AcceptsOnlineBooking:   true,
		SendVisitorReminders:   true,
		SendTherapistReminders: true,
	}
}

// Location resolves the IANA timezone, falling back to UTC for an unknown name
func (s *BookingSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MinNotice returns the minimum booking notice as a duration
func (s *BookingSettings) MinNotice() time.Duration {
	return time.Duration(s.MinBookingNoticeHours) * time.Hour
}

// Buffer returns the buffer as a duration
func (s *BookingSettings) Buffer() time.Duration {
	return time.Duration(s.BufferMinutes) * time.Minute
}

// SlotDuration returns the slot length as a duration
func (s *BookingSettings) SlotDuration() time.Duration {
	return time.Duration(s.SlotDurationMinutes) * time.Minute
}
